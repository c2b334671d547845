package wizard

import "transitbook/internal/domain/models"

// Step identifies one screen of the booking flow.
type Step string

const (
	StepTripSelection Step = "trip_selection"
	StepBusSelection  Step = "bus_selection"
	StepSeatSelection Step = "seat_selection"
	StepPassengerInfo Step = "passenger_info"
	StepPayment       Step = "payment"
	StepConfirmation  Step = "confirmation"
)

var allSteps = []Step{
	StepTripSelection,
	StepBusSelection,
	StepSeatSelection,
	StepPassengerInfo,
	StepPayment,
	StepConfirmation,
}

// ActiveSteps returns the step list for a draft. When the hero quick-search
// already provided departure, destination and date, the trip selection step is
// omitted and the flow starts at bus selection.
func ActiveSteps(st models.BookingDraftState) []Step {
	if st.HasQuickSearch() {
		return allSteps[1:]
	}
	return allSteps
}

// IndexOf returns the position of step in steps, or -1.
func IndexOf(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

// CurrentStep resolves the draft's step index against its active list,
// clamping indexes that a shrunk step list has invalidated.
func CurrentStep(st models.BookingDraftState) Step {
	steps := ActiveSteps(st)
	idx := st.CurrentStep
	if idx < 0 {
		idx = 0
	}
	if idx >= len(steps) {
		idx = len(steps) - 1
	}
	return steps[idx]
}

// RemapIndex recomputes a step index after a mutation that may have changed
// the active step list. The index follows the step identity; a removed trip
// selection step maps onto bus selection, its successor.
func RemapIndex(before, after models.BookingDraftState) int {
	cur := CurrentStep(before)
	steps := ActiveSteps(after)
	if idx := IndexOf(steps, cur); idx >= 0 {
		return idx
	}
	if idx := IndexOf(steps, StepBusSelection); idx >= 0 {
		return idx
	}
	return 0
}

// StepComplete reports whether a step's exit condition holds for the draft.
// Completion is derived from state rather than tracked separately, so a
// reloaded session lands on the right step with the right buttons enabled.
func StepComplete(st models.BookingDraftState, step Step) bool {
	switch step {
	case StepTripSelection:
		return st.Departure != "" && st.Destination != "" && st.Date != ""
	case StepBusSelection:
		return st.SelectedBus != nil
	case StepSeatSelection:
		// exact count, not at-least
		return st.Passengers > 0 && len(st.SelectedSeats) == st.Passengers
	case StepPassengerInfo:
		return st.HasSubmittedPassengerData
	case StepPayment:
		return st.PaymentVerified
	case StepConfirmation:
		return false
	default:
		return false
	}
}
