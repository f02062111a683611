package domain

import "time"

// SessionState is a state of the session controller.
type SessionState string

const (
	StateIdle                   SessionState = "idle"
	StateResolving              SessionState = "resolving"
	StateAwaitingClassification SessionState = "awaiting_classification"
	StateMutating               SessionState = "mutating"
	StateAwaitingLearnerWork    SessionState = "awaiting_learner_work"
	StateLogging                SessionState = "logging"
	StateDone                   SessionState = "done" // Terminal: curriculum complete
)

// transitions is the complete table of legal moves.
var transitions = map[SessionState][]SessionState{
	StateIdle:                   {StateResolving},
	StateResolving:              {StateAwaitingClassification, StateDone},
	StateAwaitingClassification: {StateMutating},
	StateMutating:               {StateAwaitingLearnerWork},
	StateAwaitingLearnerWork:    {StateLogging},
	StateLogging:                {StateIdle},
}

// CanTransition reports whether moving from -> to is legal.
func CanTransition(from, to SessionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s SessionState) Terminal() bool {
	return s == StateDone
}

// Session is the runtime snapshot of one pass through the session state machine.
type Session struct {
	ID        string         `json:"id"`
	State     SessionState   `json:"state"`
	Topic     *Topic         `json:"topic,omitempty"`
	Strategy  *Strategy      `json:"strategy,omitempty"`
	Report    MutationReport `json:"report"`
	Lesson    string         `json:"lesson,omitempty"`
	History   []SessionState `json:"history"`
	StartedAt time.Time      `json:"started_at"`
}

// NewSession creates an idle session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		History:   []SessionState{StateIdle},
		StartedAt: now.UTC(),
	}
}

// Done reports whether the curriculum was complete when the session resolved.
func (s *Session) Done() bool {
	return s.State == StateDone
}
