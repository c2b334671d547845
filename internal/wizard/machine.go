package wizard

import (
	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

// Decision is the outcome of a navigation request. Warn and Block are UX
// guards, not errors: warn offers a destructive reset, block refuses outright.
type Decision string

const (
	DecisionAllow  Decision = "allow"
	DecisionWarn   Decision = "warn"
	DecisionBlock  Decision = "block"
	DecisionIgnore Decision = "ignore"
	// DecisionHome means leaving the wizard entirely (back from the first step).
	DecisionHome Decision = "home"
)

// NavOutcome reports a navigation decision plus the resulting index when the
// move is allowed.
type NavOutcome struct {
	Decision Decision `json:"decision"`
	Index    int      `json:"index"`
	Message  string   `json:"message,omitempty"`
}

const (
	msgResetWarning = "going back will reset all your booking data"
	msgBlocked      = "changes are not allowed after passenger details are submitted"
	msgIncomplete   = "complete the current step first"
)

// Next advances to the following step. Only callable once the current step's
// exit condition holds.
func Next(st models.BookingDraftState) (int, error) {
	steps := ActiveSteps(st)
	idx := clamp(st.CurrentStep, steps)
	if !StepComplete(st, steps[idx]) {
		return idx, domain.ValidationError{Field: "step", Msg: msgIncomplete}
	}
	if idx >= len(steps)-1 {
		return idx, nil
	}
	return idx + 1, nil
}

// Back applies the three-way guard for the previous button:
//  1. submitted + currently on payment: warn, confirming resets everything
//  2. submitted + target earlier than payment: block
//  3. otherwise move back, or leave the wizard from the first step
func Back(st models.BookingDraftState) NavOutcome {
	steps := ActiveSteps(st)
	idx := clamp(st.CurrentStep, steps)
	if steps[idx] == StepConfirmation {
		// terminal state, navigation hidden
		return NavOutcome{Decision: DecisionIgnore, Index: idx}
	}
	if idx == 0 {
		return NavOutcome{Decision: DecisionHome, Index: 0}
	}
	return guardBackward(st, steps, idx, idx-1)
}

// StepClick handles clicking a step indicator directly. Forward clicks beyond
// the current step are ignored; backward clicks share the guard rules of Back.
func StepClick(st models.BookingDraftState, target int) NavOutcome {
	steps := ActiveSteps(st)
	idx := clamp(st.CurrentStep, steps)
	if steps[idx] == StepConfirmation {
		return NavOutcome{Decision: DecisionIgnore, Index: idx}
	}
	if target < 0 || target >= len(steps) || target >= idx {
		return NavOutcome{Decision: DecisionIgnore, Index: idx}
	}
	return guardBackward(st, steps, idx, target)
}

func guardBackward(st models.BookingDraftState, steps []Step, cur, target int) NavOutcome {
	if st.HasSubmittedPassengerData {
		if steps[cur] == StepPayment && target == cur-1 {
			return NavOutcome{Decision: DecisionWarn, Index: cur, Message: msgResetWarning}
		}
		if payIdx := IndexOf(steps, StepPayment); target < payIdx {
			return NavOutcome{Decision: DecisionBlock, Index: cur, Message: msgBlocked}
		}
	}
	return NavOutcome{Decision: DecisionAllow, Index: target}
}

func clamp(idx int, steps []Step) int {
	if idx < 0 {
		return 0
	}
	if idx >= len(steps) {
		return len(steps) - 1
	}
	return idx
}
