package models

// PaymentErrorKind tags payment failures so the UI can steer recovery:
// an expired seat hold restarts seat selection instead of retrying payment.
type PaymentErrorKind string

const (
	PaymentErrSeatExpired     PaymentErrorKind = "seat_expired"
	PaymentErrBookingNotFound PaymentErrorKind = "booking_not_found"
	PaymentErrPaymentFailed   PaymentErrorKind = "payment_failed"
	PaymentErrCancelled       PaymentErrorKind = "cancelled"
	PaymentErrUnknown         PaymentErrorKind = "unknown"
)

// PaymentError carries the failure kind plus the upstream message.
type PaymentError struct {
	Kind    PaymentErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// PaymentResult is the single terminal outcome of one payment attempt:
// verified success, explicit cancel, timeout, or a tagged failure.
type PaymentResult struct {
	Success   bool          `json:"success"`
	Cancelled bool          `json:"cancelled,omitempty"`
	TicketURL string        `json:"ticketUrl,omitempty"`
	Error     *PaymentError `json:"error,omitempty"`
}
