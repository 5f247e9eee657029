// internal/wizard/state.go
package wizard

import "yesloans-backend/internal/models"

const (
	StepPersonal   = 1
	StepKYC        = 2
	StepEmployment = 3
	StepFinancial  = 4
	StepLoan       = 5
	StepBank       = 6
	StepReferences = 7

	FirstStep = StepPersonal
	FinalStep = StepReferences
)

// State is an immutable snapshot of the wizard: the full field set, the
// current step cursor and the mode. Transitions return a new State and
// leave the receiver untouched, so a failed gate provably changes nothing.
type State struct {
	Fields Fields
	Step   int
	Mode   Mode
}

// NewCreate starts an empty wizard at the first step.
func NewCreate() State {
	return State{Step: FirstStep, Mode: CreateMode()}
}

// NewEdit opens a persisted record for editing, pre-populated through the
// reconciler. identity_verified carries over; re-verification is not
// forced in edit mode.
func NewEdit(rec *models.ApplicationRecord) State {
	return State{
		Fields: FromRecord(rec),
		Step:   FirstStep,
		Mode:   EditMode(rec.ID),
	}
}

// Submission builds the final-step state the API boundary hands to the
// pipeline.
func Submission(f Fields, mode Mode) State {
	return State{Fields: f, Step: FinalStep, Mode: mode}
}

// WithFields returns a copy of the state with the field set replaced.
func (s State) WithFields(f Fields) State {
	s.Fields = f
	return s
}

// Advance moves to the next step iff the current step's gate passes. On
// failure the returned state equals the receiver and the violations say
// which fields blocked it. Advancing from the final step is rejected:
// leaving it happens only through submission.
func (s State) Advance() (State, []FieldViolation) {
	if s.Step >= FinalStep {
		return s, []FieldViolation{{
			Field:   "current_step",
			Code:    CodeStepOutOfRange,
			Message: "already at the final step",
		}}
	}

	if violations := s.Validate(s.Step); len(violations) > 0 {
		return s, violations
	}

	next := s
	next.Step++
	return next, nil
}

// Retreat moves one step back. From the first step it returns the state
// unchanged.
func (s State) Retreat() State {
	if s.Step <= FirstStep {
		return s
	}
	prev := s
	prev.Step--
	return prev
}
