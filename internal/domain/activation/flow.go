// Package activation models the account activation flow as an explicit state
// machine. Each state is its own type; transitions are functions that either
// return the next state or ErrInvalidTransition.
package activation

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid activation transition")

// State is one of Loading, Form, Success or Failed.
type State interface {
	Name() string
	isState()
}

// Loading is the initial state while the pending account is looked up.
type Loading struct{}

// Form holds a pending account waiting for confirmation.
type Form struct {
	SubjectID string
}

// Success is terminal: the account was activated.
type Success struct {
	SubjectID string
}

// Failed is terminal unless retried.
type Failed struct {
	Reason string
}

func (Loading) Name() string { return "loading" }
func (Form) Name() string    { return "form" }
func (Success) Name() string { return "success" }
func (Failed) Name() string  { return "error" }

func (Loading) isState() {}
func (Form) isState()    {}
func (Success) isState() {}
func (Failed) isState()  {}

func Start() State {
	return Loading{}
}

// Loaded moves Loading to Form once the pending account is known.
func Loaded(s State, subjectID string) (State, error) {
	switch s.(type) {
	case Loading:
		return Form{SubjectID: subjectID}, nil
	default:
		return s, invalid(s, "loaded")
	}
}

// Submit moves Form to Success after the account was activated.
func Submit(s State) (State, error) {
	switch st := s.(type) {
	case Form:
		return Success{SubjectID: st.SubjectID}, nil
	default:
		return s, invalid(s, "submit")
	}
}

// Fail moves Loading or Form to Failed.
func Fail(s State, reason string) (State, error) {
	switch s.(type) {
	case Loading, Form:
		return Failed{Reason: reason}, nil
	default:
		return s, invalid(s, "fail")
	}
}

// Retry restarts a failed flow.
func Retry(s State) (State, error) {
	switch s.(type) {
	case Failed:
		return Loading{}, nil
	default:
		return s, invalid(s, "retry")
	}
}

// IsTerminal reports whether no forward transition exists from s.
func IsTerminal(s State) bool {
	switch s.(type) {
	case Success, Failed:
		return true
	case Loading, Form:
		return false
	default:
		panic(fmt.Sprintf("activation: unknown state %T", s))
	}
}

func invalid(s State, event string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, s.Name())
}
