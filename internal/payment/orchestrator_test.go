package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"transitbook/internal/client"
	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

type fakeVerifier struct {
	resp client.PaymentVerifyResponse
	err  error
	reqs []client.PaymentVerifyRequest
}

func (f *fakeVerifier) VerifyPayment(_ context.Context, req client.PaymentVerifyRequest) (client.PaymentVerifyResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func TestAwait_SuccessVerifiedUpstream(t *testing.T) {
	v := &fakeVerifier{resp: client.PaymentVerifyResponse{TicketURL: "https://t/abc.pdf"}}
	o := New(v, time.Second)
	o.Register("ref-1")

	go func() {
		time.Sleep(10 * time.Millisecond)
		if !o.NotifySuccess("ref-1") {
			t.Errorf("notify success rejected")
		}
	}()

	res := o.Await(context.Background(), "req", "ref-1", []int64{1, 2})
	if !res.Success || res.TicketURL != "https://t/abc.pdf" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(v.reqs) != 1 || v.reqs[0].Reference != "ref-1" || len(v.reqs[0].SeatIDs) != 2 {
		t.Fatalf("verify not called correctly: %+v", v.reqs)
	}
}

func TestAwait_CancelIsTerminal(t *testing.T) {
	v := &fakeVerifier{}
	o := New(v, time.Second)
	o.Register("ref-2")

	go func() {
		time.Sleep(10 * time.Millisecond)
		o.NotifyCancel("ref-2")
	}()

	res := o.Await(context.Background(), "req", "ref-2", nil)
	if res.Success || !res.Cancelled {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Error == nil || res.Error.Kind != models.PaymentErrCancelled {
		t.Fatalf("expected cancelled kind, got %+v", res.Error)
	}
	if len(v.reqs) != 0 {
		t.Fatalf("cancel must not verify upstream")
	}
}

func TestAwait_TimeoutCountsAsCancellation(t *testing.T) {
	o := New(&fakeVerifier{}, 20*time.Millisecond)
	o.Register("ref-3")

	res := o.Await(context.Background(), "req", "ref-3", nil)
	if res.Success || !res.Cancelled {
		t.Fatalf("unexpected result %+v", res)
	}
	// an implicit timeout carries no tagged error
	if res.Error != nil {
		t.Fatalf("timeout must not carry an error, got %+v", res.Error)
	}
}

func TestAwait_UnknownReference(t *testing.T) {
	o := New(&fakeVerifier{}, time.Second)
	res := o.Await(context.Background(), "req", "never-registered", nil)
	if res.Success || res.Error == nil || res.Error.Kind != models.PaymentErrUnknown {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNotify_AfterResolutionDropped(t *testing.T) {
	o := New(&fakeVerifier{}, 20*time.Millisecond)
	o.Register("ref-4")
	o.Await(context.Background(), "req", "ref-4", nil)

	if o.NotifySuccess("ref-4") {
		t.Fatalf("late callback must be dropped")
	}
}

func TestNotify_OnlyFirstEventCounts(t *testing.T) {
	o := New(&fakeVerifier{err: errors.New("payment failed")}, time.Second)
	o.Register("ref-5")

	if !o.NotifySuccess("ref-5") {
		t.Fatalf("first notify must land")
	}
	if o.NotifyCancel("ref-5") {
		t.Fatalf("second event must be dropped")
	}

	res := o.Await(context.Background(), "req", "ref-5", nil)
	if res.Success {
		t.Fatalf("failed verify must not succeed")
	}
	if res.Error == nil || res.Error.Kind != models.PaymentErrPaymentFailed {
		t.Fatalf("expected payment_failed, got %+v", res.Error)
	}
}

func TestClassifyVerifyError(t *testing.T) {
	cases := []struct {
		err  error
		want models.PaymentErrorKind
	}{
		{errors.New("seat 4 hold expired"), models.PaymentErrSeatExpired},
		{errors.New("seat reservation expired, pick again"), models.PaymentErrSeatExpired},
		{domain.NotFoundError{Resource: "booking"}, models.PaymentErrBookingNotFound},
		{errors.New("booking not found"), models.PaymentErrBookingNotFound},
		{errors.New("payment failed: card declined"), models.PaymentErrPaymentFailed},
		{errors.New("insufficient funds"), models.PaymentErrPaymentFailed},
		{errors.New("connection reset"), models.PaymentErrUnknown},
	}
	for _, tc := range cases {
		kind, msg := ClassifyVerifyError(tc.err)
		if kind != tc.want {
			t.Fatalf("%q: got %s want %s", tc.err, kind, tc.want)
		}
		if msg == "" {
			t.Fatalf("%q: message must be preserved", tc.err)
		}
	}
}
