package models

// DraftSchemaVersion tags the persisted draft shape. Loading a row written
// with a different version discards it rather than guessing at migrations.
const DraftSchemaVersion = 1

// MaxPassengers caps seats per booking across both vehicle classes.
const MaxPassengers = 13

// SelectedSeat pairs the upstream seat id with its printed label.
type SelectedSeat struct {
	SeatID int64  `json:"seatId"`
	SeatNo string `json:"seatNo"`
}

// PassengerInfo holds the primary passenger contact and next of kin.
type PassengerInfo struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	NextOfKinName string `json:"nextOfKinName"`
	NextOfKinTel  string `json:"nextOfKinTel"`
}

// PaymentInfo is populated right before payment submission.
type PaymentInfo struct {
	Method         string `json:"method"`
	AmountKobo     int64  `json:"amountKobo"`
	Email          string `json:"email"`
	IsSplitPayment bool   `json:"isSplitPayment"`
}

// BookingDraftState is the single source of truth for one wizard session.
// Every mutation is persisted so a reload resumes mid-flow.
type BookingDraftState struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"`       // YYYY-MM-DD
	ReturnDate  string `json:"returnDate,omitempty"` // YYYY-MM-DD
	Passengers  int    `json:"passengers"`
	TripType    string `json:"tripType"`

	SelectedBus   *TripOffer     `json:"selectedBus,omitempty"`
	SelectedSeats []SelectedSeat `json:"selectedSeats"`

	PassengerInfo *PassengerInfo `json:"passengerInfo,omitempty"`
	PaymentInfo   *PaymentInfo   `json:"paymentInfo,omitempty"`

	BookingDraftID int64  `json:"bookingDraftId,omitempty"`
	BookingToken   string `json:"bookingToken,omitempty"`

	// Set once the upstream verified the transaction; gates the
	// confirmation step.
	PaymentVerified  bool   `json:"paymentVerified"`
	PaymentReference string `json:"paymentReference,omitempty"`
	TicketURL        string `json:"ticketUrl,omitempty"`

	// Once true, backward navigation past the payment step requires a full
	// reset; only a session reset clears it.
	HasSubmittedPassengerData bool `json:"hasSubmittedPassengerData"`

	CurrentStep int `json:"currentStep"`
}

// NewDraftState returns the initial state for a fresh wizard session.
func NewDraftState() BookingDraftState {
	return BookingDraftState{
		Passengers:    1,
		TripType:      "one_way",
		SelectedSeats: []SelectedSeat{},
	}
}

// HasQuickSearch reports whether the hero-form fields are all populated,
// which lets the wizard skip the trip selection step.
func (s BookingDraftState) HasQuickSearch() bool {
	return s.Departure != "" && s.Destination != "" && s.Date != ""
}

// SeatIDs returns the selected seat ids in selection order.
func (s BookingDraftState) SeatIDs() []int64 {
	out := make([]int64, 0, len(s.SelectedSeats))
	for _, seat := range s.SelectedSeats {
		out = append(out, seat.SeatID)
	}
	return out
}
