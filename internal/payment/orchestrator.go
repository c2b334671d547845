package payment

import (
	"context"
	"strings"
	"sync"
	"time"

	"transitbook/internal/client"
	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
	"transitbook/internal/utils"
)

// DefaultTimeout bounds how long an open payment widget can keep a wizard
// waiting before it counts as an implicit cancellation.
const DefaultTimeout = 5 * time.Minute

// Verifier confirms a provider transaction upstream.
type Verifier interface {
	VerifyPayment(ctx context.Context, req client.PaymentVerifyRequest) (client.PaymentVerifyResponse, error)
}

type outcome struct {
	success bool
}

// Orchestrator coordinates one payment attempt per provider reference: the
// widget's success/cancel callbacks race against a timeout, and only a
// server-side verification turns a success callback into a completed payment.
type Orchestrator struct {
	verifier Verifier
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]chan outcome
}

func New(verifier Verifier, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		verifier: verifier,
		timeout:  timeout,
		pending:  make(map[string]chan outcome),
	}
}

// Register opens a pending slot for a freshly initialized reference. Paying
// again re-initializes, so an existing slot is replaced, not reused.
func (o *Orchestrator) Register(reference string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[reference] = make(chan outcome, 1)
}

// NotifySuccess delivers the widget's success callback. Returns false when the
// reference is unknown or already resolved.
func (o *Orchestrator) NotifySuccess(reference string) bool {
	return o.notify(reference, outcome{success: true})
}

// NotifyCancel delivers an explicit widget cancellation.
func (o *Orchestrator) NotifyCancel(reference string) bool {
	return o.notify(reference, outcome{success: false})
}

func (o *Orchestrator) notify(reference string, out outcome) bool {
	o.mu.Lock()
	ch, ok := o.pending[reference]
	o.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- out:
		return true
	default:
		// already resolved; later callbacks are dropped
		return false
	}
}

// Await blocks until the reference reaches exactly one terminal event:
// success callback (then verified upstream), explicit cancel, or timeout.
func (o *Orchestrator) Await(ctx context.Context, requestID, reference string, seatIDs []int64) models.PaymentResult {
	o.mu.Lock()
	ch, ok := o.pending[reference]
	o.mu.Unlock()
	if !ok {
		return failure(models.PaymentErrUnknown, "unknown payment reference")
	}
	defer func() {
		o.mu.Lock()
		delete(o.pending, reference)
		o.mu.Unlock()
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		if !out.success {
			utils.LogEvent(requestID, "payment", "await", "reference="+reference+" cancelled by user")
			res := failure(models.PaymentErrCancelled, "you cancelled the payment")
			res.Cancelled = true
			return res
		}
		return o.verify(ctx, requestID, reference, seatIDs)
	case <-timer.C:
		utils.LogEvent(requestID, "payment", "await", "reference="+reference+" timed out")
		return models.PaymentResult{Success: false, Cancelled: true}
	case <-ctx.Done():
		return models.PaymentResult{Success: false, Cancelled: true}
	}
}

func (o *Orchestrator) verify(ctx context.Context, requestID, reference string, seatIDs []int64) models.PaymentResult {
	resp, err := o.verifier.VerifyPayment(ctx, client.PaymentVerifyRequest{
		Reference: reference,
		SeatIDs:   seatIDs,
	})
	if err != nil {
		kind, msg := ClassifyVerifyError(err)
		utils.LogEvent(requestID, "payment", "verify", "reference="+reference+" kind="+string(kind))
		return failure(kind, msg)
	}
	utils.LogEvent(requestID, "payment", "verify", "reference="+reference+" verified")
	return models.PaymentResult{Success: true, TicketURL: resp.TicketURL}
}

// ClassifyVerifyError maps an upstream verification failure to a tagged kind.
// An expired seat hold is surfaced distinctly so the caller restarts seat
// selection instead of blindly retrying payment.
func ClassifyVerifyError(err error) (models.PaymentErrorKind, string) {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "seat") && strings.Contains(lower, "expired"),
		strings.Contains(lower, "hold expired"):
		return models.PaymentErrSeatExpired, msg
	case domain.IsNotFound(err), strings.Contains(lower, "booking not found"):
		return models.PaymentErrBookingNotFound, msg
	case strings.Contains(lower, "payment failed"),
		strings.Contains(lower, "declined"),
		strings.Contains(lower, "insufficient"):
		return models.PaymentErrPaymentFailed, msg
	default:
		return models.PaymentErrUnknown, msg
	}
}

func failure(kind models.PaymentErrorKind, msg string) models.PaymentResult {
	return models.PaymentResult{
		Success: false,
		Error:   &models.PaymentError{Kind: kind, Message: msg},
	}
}
