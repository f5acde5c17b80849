package domain

import "fmt"

// PairingPhase enumerates the linking handshake states.
type PairingPhase int

const (
	Unlinked PairingPhase = iota
	CodeIssued
	Linked
	Conflict
)

func (p PairingPhase) String() string {
	switch p {
	case Unlinked:
		return "unlinked"
	case CodeIssued:
		return "code_issued"
	case Linked:
		return "linked"
	case Conflict:
		return "conflict"
	default:
		return fmt.Sprintf("pairing_phase(%d)", int(p))
	}
}

// PairingState is a value in the linking state machine. Code is only set in
// the CodeIssued phase.
type PairingState struct {
	Phase PairingPhase
	Code  string
}

// NewUnlinkedState returns the initial state.
func NewUnlinkedState() PairingState {
	return PairingState{Phase: Unlinked}
}

// NewCodeIssuedState returns the state after the service issued a link code.
func NewCodeIssuedState(code string) PairingState {
	return PairingState{Phase: CodeIssued, Code: code}
}

// IsTerminal reports whether no further transition is defined.
func (s PairingState) IsTerminal() bool {
	return s.Phase == Linked
}

func (s PairingState) String() string {
	if s.Phase == CodeIssued {
		return fmt.Sprintf("%s(%s)", s.Phase, s.Code)
	}
	return s.Phase.String()
}
