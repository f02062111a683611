package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventMutation   EventType = "mutation"
	EventComplete   EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted on every state change of a session.
type TransitionEvent struct {
	EventBase
	From    SessionState `json:"from"`
	To      SessionState `json:"to"`
	TopicID string       `json:"topic_id,omitempty"`
}

// MutationEvent is emitted after the workspace has been brought in line with a topic.
type MutationEvent struct {
	EventBase
	TopicID string         `json:"topic_id"`
	Report  MutationReport `json:"report"`
}

// CompleteEvent is emitted after a ledger append.
type CompleteEvent struct {
	EventBase
	Entry   LedgerEntry `json:"entry"`
	Skipped bool        `json:"skipped,omitempty"` // already present in the ledger
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnMutation   func(context.Context, *MutationEvent)
	OnComplete   func(context.Context, *CompleteEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnMutation:   chain(h.OnMutation, other.OnMutation),
		OnComplete:   chain(h.OnComplete, other.OnComplete),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e T) {
		a(ctx, e)
		b(ctx, e)
	}
}
