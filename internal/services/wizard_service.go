package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"transitbook/internal/cache"
	"transitbook/internal/client"
	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
	"transitbook/internal/payment"
	"transitbook/internal/repositories"
	"transitbook/internal/seatgrid"
	"transitbook/internal/utils"
	"transitbook/internal/wizard"
)

// UpstreamAPI is the slice of the inventory/payment API the wizard needs.
type UpstreamAPI interface {
	SearchTrips(ctx context.Context, req client.TripSearchRequest) ([]models.TripOffer, error)
	ListSeats(ctx context.Context, tripID int64) ([]models.Seat, error)
	CreateDraftBooking(ctx context.Context, req client.DraftBookingRequest) (client.DraftBookingResponse, error)
	GetBookingByToken(ctx context.Context, token string) (models.BookingDetail, error)
	InitializePayment(ctx context.Context, req client.PaymentInitRequest) (string, error)
	VerifyPayment(ctx context.Context, req client.PaymentVerifyRequest) (client.PaymentVerifyResponse, error)
}

// SessionStore is what the wizard needs from draft persistence. SessionRepo is
// the MySQL implementation; tests substitute an in-memory one.
type SessionStore interface {
	Save(sessionID string, state models.BookingDraftState) error
	Load(sessionID string) (models.BookingDraftState, error)
	Delete(sessionID string) error
}

var _ SessionStore = repositories.SessionRepo{}

// WizardService drives one booking wizard session: it owns every mutation of
// the persisted draft and talks to the upstream on the steps' behalf.
type WizardService struct {
	Sessions  SessionStore
	Upstream  UpstreamAPI
	SeatCache cache.SeatCache
	Payments  *payment.Orchestrator
	RequestID string
}

// SessionView is the state snapshot handed to the front end.
type SessionView struct {
	SessionID   string                   `json:"sessionId"`
	State       models.BookingDraftState `json:"state"`
	ActiveSteps []wizard.Step            `json:"activeSteps"`
	CurrentStep wizard.Step              `json:"currentStep"`
	Completed   map[wizard.Step]bool     `json:"completed"`
}

func (s WizardService) view(sessionID string, st models.BookingDraftState) SessionView {
	steps := wizard.ActiveSteps(st)
	completed := make(map[wizard.Step]bool, len(steps))
	for _, step := range steps {
		completed[step] = wizard.StepComplete(st, step)
	}
	return SessionView{
		SessionID:   sessionID,
		State:       st,
		ActiveSteps: steps,
		CurrentStep: wizard.CurrentStep(st),
		Completed:   completed,
	}
}

// CreateSession opens a fresh wizard session. Quick-search fields may arrive
// with it when the user comes from the hero form, which skips trip selection.
func (s WizardService) CreateSession(quick *SearchInput) (SessionView, error) {
	st := models.NewDraftState()
	if quick != nil {
		clean, err := normalizeSearch(*quick)
		if err != nil {
			return SessionView{}, err
		}
		applySearch(&st, clean)
	}
	sid := uuid.NewString()
	if err := s.Sessions.Save(sid, st); err != nil {
		return SessionView{}, err
	}
	utils.LogEvent(s.RequestID, "wizard", "create_session", "session_id="+sid)
	return s.view(sid, st), nil
}

// GetSession loads the current draft; reloads resume mid-flow from here.
func (s WizardService) GetSession(sessionID string) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sessionID, st), nil
}

// SearchInput carries the trip-selection form.
type SearchInput struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	ReturnDate  string `json:"returnDate,omitempty"`
	Passengers  int    `json:"passengers"`
	TripType    string `json:"tripType"`
}

func normalizeSearch(in SearchInput) (SearchInput, error) {
	in.Departure = utils.NormalizeSpace(in.Departure)
	in.Destination = utils.NormalizeSpace(in.Destination)
	in.Date = strings.TrimSpace(in.Date)
	in.ReturnDate = strings.TrimSpace(in.ReturnDate)
	in.TripType = strings.TrimSpace(in.TripType)

	if in.Departure == "" {
		return in, domain.ValidationError{Field: "departure", Msg: "departure is required"}
	}
	if in.Destination == "" {
		return in, domain.ValidationError{Field: "destination", Msg: "destination is required"}
	}
	if utils.NormalizeLocation(in.Departure) == utils.NormalizeLocation(in.Destination) {
		return in, domain.ValidationError{Field: "destination", Msg: "departure and destination must differ"}
	}
	if in.Date == "" {
		return in, domain.ValidationError{Field: "date", Msg: "travel date is required"}
	}
	if _, err := utils.ParseDate(in.Date); err != nil {
		return in, domain.ValidationError{Field: "date", Msg: "invalid date (YYYY-MM-DD)", Err: err}
	}
	if in.Passengers == 0 {
		in.Passengers = 1
	}
	if in.Passengers < 1 || in.Passengers > models.MaxPassengers {
		return in, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passengers must be between 1 and %d", models.MaxPassengers)}
	}
	switch domain.TripType(in.TripType) {
	case "":
		in.TripType = string(domain.TripTypeOneWay)
	case domain.TripTypeOneWay:
		in.ReturnDate = ""
	case domain.TripTypeRoundTrip:
		if in.ReturnDate == "" {
			return in, domain.ValidationError{Field: "returnDate", Msg: "return date is required for round trips"}
		}
		if _, err := utils.ParseDate(in.ReturnDate); err != nil {
			return in, domain.ValidationError{Field: "returnDate", Msg: "invalid return date (YYYY-MM-DD)", Err: err}
		}
	default:
		return in, domain.ValidationError{Field: "tripType", Msg: "tripType must be one_way or round_trip"}
	}
	return in, nil
}

func applySearch(st *models.BookingDraftState, in SearchInput) {
	st.Departure = in.Departure
	st.Destination = in.Destination
	st.Date = in.Date
	st.ReturnDate = in.ReturnDate
	st.Passengers = in.Passengers
	st.TripType = in.TripType
}

// Search stores the trip-selection form and queries the upstream for matching
// departures. Changing the route or date invalidates any chosen bus and seats.
func (s WizardService) Search(ctx context.Context, sessionID string, in SearchInput) (SessionView, []models.TripOffer, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, nil, err
	}
	if st.HasSubmittedPassengerData {
		return SessionView{}, nil, domain.ConflictError{Resource: "booking", Msg: "passenger data already submitted"}
	}
	clean, err := normalizeSearch(in)
	if err != nil {
		return SessionView{}, nil, err
	}

	before := st
	routeChanged := st.Departure != clean.Departure ||
		st.Destination != clean.Destination ||
		st.Date != clean.Date
	applySearch(&st, clean)
	if routeChanged {
		s.clearSelection(ctx, &st)
	}
	if len(st.SelectedSeats) > st.Passengers {
		// fewer travellers than chosen seats; selection is stale
		st.SelectedSeats = []models.SelectedSeat{}
	}
	st.CurrentStep = wizard.RemapIndex(before, st)

	trips, err := s.Upstream.SearchTrips(ctx, client.TripSearchRequest{
		Origin:      clean.Departure,
		Destination: clean.Destination,
		Date:        clean.Date,
	})
	if err != nil {
		return SessionView{}, nil, err
	}
	if err := s.Sessions.Save(sessionID, st); err != nil {
		return SessionView{}, nil, err
	}
	utils.LogEvent(s.RequestID, "wizard", "search",
		fmt.Sprintf("session_id=%s route=%s->%s trips=%d", sessionID, clean.Departure, clean.Destination, len(trips)))
	return s.view(sessionID, st), trips, nil
}

// SelectBus records the chosen trip offering. Switching trips clears the seat
// selection so a stale selection can never reach passenger info or payment.
func (s WizardService) SelectBus(ctx context.Context, sessionID string, offer models.TripOffer) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if st.HasSubmittedPassengerData {
		return SessionView{}, domain.ConflictError{Resource: "booking", Msg: "passenger data already submitted"}
	}
	if offer.TripID <= 0 {
		return SessionView{}, domain.ValidationError{Field: "tripId", Msg: "trip id is required"}
	}
	if offer.FareKobo <= 0 {
		return SessionView{}, domain.ValidationError{Field: "fare", Msg: "fare is required"}
	}

	if st.SelectedBus == nil || st.SelectedBus.TripID != offer.TripID {
		s.clearSelection(ctx, &st)
	}
	st.SelectedBus = &offer
	if err := s.Sessions.Save(sessionID, st); err != nil {
		return SessionView{}, err
	}
	utils.LogEvent(s.RequestID, "wizard", "select_bus",
		fmt.Sprintf("session_id=%s trip_id=%d", sessionID, offer.TripID))
	return s.view(sessionID, st), nil
}

// SeatGridView is the positional seat map plus the selection status.
type SeatGridView struct {
	BusType     string                `json:"busType"`
	Rows        []seatgrid.GridRow    `json:"rows"`
	Selected    []models.SelectedSeat `json:"selected"`
	Passengers  int                   `json:"passengers"`
	CanConfirm  bool                  `json:"canConfirm"`
	SeatsNeeded int                   `json:"seatsNeeded"`
}

// SeatGrid renders the seat map for the selected trip, merging upstream
// availability with the local selection.
func (s WizardService) SeatGrid(ctx context.Context, sessionID string) (SeatGridView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SeatGridView{}, err
	}
	if st.SelectedBus == nil {
		return SeatGridView{}, domain.ValidationError{Field: "bus", Msg: "select a bus first"}
	}
	seats, err := s.fetchSeats(ctx, st.SelectedBus.TripID, false)
	if err != nil {
		return SeatGridView{}, err
	}
	return SeatGridView{
		BusType:     st.SelectedBus.BusType,
		Rows:        seatgrid.MapSeats(seats, st.SelectedBus.BusType, st.SelectedSeats),
		Selected:    st.SelectedSeats,
		Passengers:  st.Passengers,
		CanConfirm:  seatgrid.Complete(st.SelectedSeats, st.Passengers),
		SeatsNeeded: st.Passengers - len(st.SelectedSeats),
	}, nil
}

// ToggleSeat flips one seat in the selection, checking availability against
// the freshest seat list we have.
func (s WizardService) ToggleSeat(ctx context.Context, sessionID string, seatID int64) (SeatGridView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SeatGridView{}, err
	}
	if st.SelectedBus == nil {
		return SeatGridView{}, domain.ValidationError{Field: "bus", Msg: "select a bus first"}
	}
	if st.HasSubmittedPassengerData {
		return SeatGridView{}, domain.ConflictError{Resource: "booking", Msg: "passenger data already submitted"}
	}
	seats, err := s.fetchSeats(ctx, st.SelectedBus.TripID, false)
	if err != nil {
		return SeatGridView{}, err
	}
	var seat *models.Seat
	for i := range seats {
		if seats[i].ID == seatID {
			seat = &seats[i]
			break
		}
	}
	if seat == nil {
		return SeatGridView{}, domain.NotFoundError{Resource: "seat"}
	}

	next, toggleErr := seatgrid.Toggle(st.SelectedSeats, st.Passengers, *seat)
	st.SelectedSeats = next
	if err := s.Sessions.Save(sessionID, st); err != nil {
		return SeatGridView{}, err
	}
	grid := SeatGridView{
		BusType:     st.SelectedBus.BusType,
		Rows:        seatgrid.MapSeats(seats, st.SelectedBus.BusType, st.SelectedSeats),
		Selected:    st.SelectedSeats,
		Passengers:  st.Passengers,
		CanConfirm:  seatgrid.Complete(st.SelectedSeats, st.Passengers),
		SeatsNeeded: st.Passengers - len(st.SelectedSeats),
	}
	return grid, toggleErr
}

// ConfirmSeats advances past seat selection once the selection is exact.
func (s WizardService) ConfirmSeats(sessionID string) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if !seatgrid.Complete(st.SelectedSeats, st.Passengers) {
		return SessionView{}, domain.ValidationError{
			Field: "seats",
			Msg:   fmt.Sprintf("select exactly %d seat(s)", st.Passengers),
		}
	}
	return s.advance(sessionID, st)
}

// SubmitPassengers creates the provisional booking upstream and locks the
// wizard's backward path. On failure the draft is untouched and the caller
// stays on the passenger step; retry is manual.
func (s WizardService) SubmitPassengers(ctx context.Context, sessionID string, info models.PassengerInfo) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if st.SelectedBus == nil || !seatgrid.Complete(st.SelectedSeats, st.Passengers) {
		return SessionView{}, domain.ValidationError{Field: "seats", Msg: "finish seat selection first"}
	}
	if st.HasSubmittedPassengerData {
		return SessionView{}, domain.ConflictError{Resource: "booking", Msg: "passenger data already submitted"}
	}
	if err := validatePassengerInfo(&info); err != nil {
		return SessionView{}, err
	}

	resp, err := s.Upstream.CreateDraftBooking(ctx, client.DraftBookingRequest{
		TripID:        st.SelectedBus.TripID,
		SeatIDs:       st.SeatIDs(),
		PassengerName: info.FullName,
		Email:         info.Email,
		Mobile:        info.Mobile,
		NextOfKinName: info.NextOfKinName,
		NextOfKinTel:  info.NextOfKinTel,
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "wizard", "submit_passengers", "draft create failed: "+err.Error())
		return SessionView{}, err
	}

	st.PassengerInfo = &info
	st.BookingDraftID = resp.ID
	st.BookingToken = resp.BookingToken
	st.HasSubmittedPassengerData = true
	st.PaymentInfo = &models.PaymentInfo{
		AmountKobo: st.SelectedBus.FareKobo * int64(st.Passengers),
		Email:      info.Email,
	}
	utils.LogEvent(s.RequestID, "wizard", "submit_passengers",
		fmt.Sprintf("session_id=%s booking_id=%d", sessionID, resp.ID))
	return s.advance(sessionID, st)
}

func validatePassengerInfo(info *models.PassengerInfo) error {
	info.FullName = utils.NormalizeSpace(info.FullName)
	info.Email = strings.TrimSpace(info.Email)
	info.Mobile = strings.TrimSpace(info.Mobile)
	info.NextOfKinName = utils.NormalizeSpace(info.NextOfKinName)
	info.NextOfKinTel = strings.TrimSpace(info.NextOfKinTel)

	switch {
	case info.FullName == "":
		return domain.ValidationError{Field: "fullName", Msg: "passenger name is required"}
	case info.Email == "" || !strings.Contains(info.Email, "@"):
		return domain.ValidationError{Field: "email", Msg: "a valid email is required"}
	case info.Mobile == "":
		return domain.ValidationError{Field: "mobile", Msg: "mobile number is required"}
	case info.NextOfKinName == "":
		return domain.ValidationError{Field: "nextOfKinName", Msg: "next of kin name is required"}
	case info.NextOfKinTel == "":
		return domain.ValidationError{Field: "nextOfKinTel", Msg: "next of kin phone is required"}
	}
	return nil
}

// InitializePayment re-validates the seat hold, opens a payment session
// upstream and registers the reference with the orchestrator. The returned
// reference is what the front end opens the widget with.
func (s WizardService) InitializePayment(ctx context.Context, sessionID, method string, isSplit bool) (string, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return "", err
	}
	if !st.HasSubmittedPassengerData || st.PaymentInfo == nil || st.SelectedBus == nil {
		return "", domain.ValidationError{Field: "payment", Msg: "submit passenger details first"}
	}

	// Final seat-still-available check before charging. The cache is bypassed:
	// only the upstream's current answer counts here.
	seats, err := s.fetchSeats(ctx, st.SelectedBus.TripID, true)
	if err != nil {
		return "", err
	}
	byID := make(map[int64]models.Seat, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat
	}
	for _, sel := range st.SelectedSeats {
		seat, ok := byID[sel.SeatID]
		// seats we hold are reported reserved, which is fine; gone or booked is not
		if !ok || seat.Status == models.SeatStatusBooked || seat.Status == models.SeatStatusBlocked {
			return "", domain.ConflictError{Resource: "seat hold", Msg: fmt.Sprintf("seat %s hold expired", sel.SeatNo)}
		}
	}

	st.PaymentInfo.Method = strings.TrimSpace(method)
	st.PaymentInfo.IsSplitPayment = isSplit
	reference, err := s.Upstream.InitializePayment(ctx, client.PaymentInitRequest{
		Email:          st.PaymentInfo.Email,
		AmountKobo:     st.PaymentInfo.AmountKobo,
		BookingID:      st.BookingDraftID,
		SeatIDs:        st.SeatIDs(),
		IsSplitPayment: isSplit,
	})
	if err != nil {
		return "", err
	}
	st.PaymentReference = reference
	if err := s.Sessions.Save(sessionID, st); err != nil {
		return "", err
	}
	s.Payments.Register(reference)
	utils.LogEvent(s.RequestID, "wizard", "payment_init",
		fmt.Sprintf("session_id=%s reference=%s", sessionID, reference))
	return reference, nil
}

// AwaitPaymentResult blocks until the pending payment reaches its single
// terminal outcome and folds a verified success into the draft.
func (s WizardService) AwaitPaymentResult(ctx context.Context, sessionID string) (models.PaymentResult, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return models.PaymentResult{}, err
	}
	if st.PaymentReference == "" {
		return models.PaymentResult{}, domain.ValidationError{Field: "payment", Msg: "no payment in progress"}
	}

	result := s.Payments.Await(ctx, s.RequestID, st.PaymentReference, st.SeatIDs())
	if result.Success {
		// reload: the draft may have moved while we were blocked
		st, err = s.Sessions.Load(sessionID)
		if err != nil {
			return result, err
		}
		st.PaymentVerified = true
		st.TicketURL = result.TicketURL
		// the charge went through; the verified state must outlive any
		// navigation hiccup
		if err := s.Sessions.Save(sessionID, st); err != nil {
			return result, err
		}
		if _, aErr := s.advance(sessionID, st); aErr != nil {
			utils.LogEvent(s.RequestID, "wizard", "payment_result", "advance failed: "+aErr.Error())
		}
	}
	return result, nil
}

// Confirmation fetches the booked trip by token for the final screen.
func (s WizardService) Confirmation(ctx context.Context, sessionID string) (models.BookingDetail, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return models.BookingDetail{}, err
	}
	if !st.PaymentVerified || st.BookingToken == "" {
		return models.BookingDetail{}, domain.ValidationError{Field: "booking", Msg: "payment has not completed"}
	}
	return s.Upstream.GetBookingByToken(ctx, st.BookingToken)
}

// NextStep advances when the current step is complete.
func (s WizardService) NextStep(sessionID string) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return s.advance(sessionID, st)
}

// BackStep applies the guarded previous-button navigation. A warn decision
// with confirmed=true performs the destructive reset and sends the user home.
func (s WizardService) BackStep(ctx context.Context, sessionID string, confirmed bool) (wizard.NavOutcome, SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return wizard.NavOutcome{}, SessionView{}, err
	}
	out := wizard.Back(st)
	return s.applyNav(ctx, sessionID, st, out, confirmed)
}

// ClickStep applies the guarded step-indicator navigation.
func (s WizardService) ClickStep(ctx context.Context, sessionID string, target int, confirmed bool) (wizard.NavOutcome, SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err != nil {
		return wizard.NavOutcome{}, SessionView{}, err
	}
	out := wizard.StepClick(st, target)
	return s.applyNav(ctx, sessionID, st, out, confirmed)
}

func (s WizardService) applyNav(ctx context.Context, sessionID string, st models.BookingDraftState, out wizard.NavOutcome, confirmed bool) (wizard.NavOutcome, SessionView, error) {
	switch out.Decision {
	case wizard.DecisionAllow:
		st.CurrentStep = out.Index
		if err := s.Sessions.Save(sessionID, st); err != nil {
			return out, SessionView{}, err
		}
	case wizard.DecisionWarn:
		if confirmed {
			// discarding the submitted draft; the upstream hold simply expires
			view, err := s.Reset(ctx, sessionID)
			if err != nil {
				return out, SessionView{}, err
			}
			out.Decision = wizard.DecisionHome
			out.Index = 0
			return out, view, nil
		}
	}
	return out, s.view(sessionID, st), nil
}

// Reset restores the draft to its initial values: the only way to clear
// hasSubmittedPassengerData.
func (s WizardService) Reset(ctx context.Context, sessionID string) (SessionView, error) {
	st, err := s.Sessions.Load(sessionID)
	if err == nil && st.SelectedBus != nil {
		s.SeatCache.Invalidate(ctx, s.RequestID, st.SelectedBus.TripID)
	}
	fresh := models.NewDraftState()
	if err := s.Sessions.Save(sessionID, fresh); err != nil {
		return SessionView{}, err
	}
	utils.LogEvent(s.RequestID, "wizard", "reset", "session_id="+sessionID)
	return s.view(sessionID, fresh), nil
}

func (s WizardService) advance(sessionID string, st models.BookingDraftState) (SessionView, error) {
	next, err := wizard.Next(st)
	if err != nil {
		return SessionView{}, err
	}
	st.CurrentStep = next
	if err := s.Sessions.Save(sessionID, st); err != nil {
		return SessionView{}, err
	}
	return s.view(sessionID, st), nil
}

func (s WizardService) clearSelection(ctx context.Context, st *models.BookingDraftState) {
	if st.SelectedBus != nil {
		s.SeatCache.Invalidate(ctx, s.RequestID, st.SelectedBus.TripID)
	}
	st.SelectedBus = nil
	st.SelectedSeats = []models.SelectedSeat{}
}

func (s WizardService) fetchSeats(ctx context.Context, tripID int64, bypassCache bool) ([]models.Seat, error) {
	if !bypassCache {
		if seats, ok := s.SeatCache.Get(ctx, tripID); ok {
			return seats, nil
		}
	} else {
		s.SeatCache.Invalidate(ctx, s.RequestID, tripID)
	}
	seats, err := s.Upstream.ListSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}
	s.SeatCache.Set(ctx, s.RequestID, tripID, seats)
	return seats, nil
}
