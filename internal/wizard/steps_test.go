package wizard

import (
	"testing"

	"transitbook/internal/domain/models"
)

// Trip selection is hidden only when all three quick-search fields are set.
func TestActiveSteps_TripSelectionVisibility(t *testing.T) {
	fields := []struct {
		departure, destination, date string
		wantHidden                   bool
	}{
		{"", "", "", false},
		{"Lagos", "", "", false},
		{"", "Abuja", "", false},
		{"", "", "2026-09-10", false},
		{"Lagos", "Abuja", "", false},
		{"Lagos", "", "2026-09-10", false},
		{"", "Abuja", "2026-09-10", false},
		{"Lagos", "Abuja", "2026-09-10", true},
	}
	for _, f := range fields {
		st := models.NewDraftState()
		st.Departure = f.departure
		st.Destination = f.destination
		st.Date = f.date
		steps := ActiveSteps(st)
		hidden := IndexOf(steps, StepTripSelection) < 0
		if hidden != f.wantHidden {
			t.Fatalf("%q/%q/%q: trip selection hidden=%v want %v",
				f.departure, f.destination, f.date, hidden, f.wantHidden)
		}
		if steps[len(steps)-1] != StepConfirmation {
			t.Fatalf("confirmation must always be last")
		}
	}
}

func TestCurrentStep_ClampsShrunkIndex(t *testing.T) {
	st := models.NewDraftState()
	st.CurrentStep = 99
	if got := CurrentStep(st); got != StepConfirmation {
		t.Fatalf("expected clamp to last step, got %s", got)
	}
	st.CurrentStep = -3
	if got := CurrentStep(st); got != StepTripSelection {
		t.Fatalf("expected clamp to first step, got %s", got)
	}
}

// Filling the quick-search fields mid-flow removes trip selection from the
// list; the stored index must keep pointing at the same step.
func TestRemapIndex_FollowsStepIdentity(t *testing.T) {
	before := models.NewDraftState()
	before.CurrentStep = IndexOf(ActiveSteps(before), StepSeatSelection) // 2 of 6

	after := before
	after.Departure = "Lagos"
	after.Destination = "Abuja"
	after.Date = "2026-09-10"

	idx := RemapIndex(before, after)
	if got := ActiveSteps(after)[idx]; got != StepSeatSelection {
		t.Fatalf("expected seat_selection after remap, got %s", got)
	}
}

func TestRemapIndex_RemovedStepMapsToBusSelection(t *testing.T) {
	before := models.NewDraftState()
	before.CurrentStep = 0 // trip selection

	after := before
	after.Departure = "Lagos"
	after.Destination = "Abuja"
	after.Date = "2026-09-10"

	idx := RemapIndex(before, after)
	if got := ActiveSteps(after)[idx]; got != StepBusSelection {
		t.Fatalf("expected bus_selection, got %s", got)
	}
}

func TestStepComplete_SeatSelectionExactCount(t *testing.T) {
	st := models.NewDraftState()
	st.Passengers = 2
	st.SelectedSeats = []models.SelectedSeat{{SeatID: 1, SeatNo: "1"}}
	if StepComplete(st, StepSeatSelection) {
		t.Fatalf("one of two seats must not complete the step")
	}
	st.SelectedSeats = append(st.SelectedSeats, models.SelectedSeat{SeatID: 2, SeatNo: "2"})
	if !StepComplete(st, StepSeatSelection) {
		t.Fatalf("exact count must complete the step")
	}
	st.SelectedSeats = append(st.SelectedSeats, models.SelectedSeat{SeatID: 3, SeatNo: "3"})
	if StepComplete(st, StepSeatSelection) {
		t.Fatalf("over-selection must not complete the step")
	}
}

func TestStepComplete_ConfirmationNeverCompletes(t *testing.T) {
	st := models.NewDraftState()
	st.PaymentVerified = true
	if StepComplete(st, StepConfirmation) {
		t.Fatalf("confirmation is terminal")
	}
}
