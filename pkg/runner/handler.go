package runner

import (
	"context"

	"github.com/aretw0/syllabus/pkg/domain"
)

// EventType identifies what the runner is presenting.
type EventType string

const (
	// EventTopic presents a prepared topic. The learner is expected to answer.
	EventTopic EventType = "topic"
	// EventCompleted reports that the topic was logged to the ledger.
	EventCompleted EventType = "completed"
	// EventCurriculumComplete reports that no topic is left.
	EventCurriculumComplete EventType = "curriculum_complete"
)

// Event is a single presentation step handed to an IOHandler.
type Event struct {
	Type    EventType       `json:"type"`
	Session *domain.Session `json:"session,omitempty"`
}

// IOHandler defines the strategy for interacting with the learner.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the event to the learner.
	// Returns true if the handler expects to read input after this.
	Output(ctx context.Context, ev Event) (bool, error)

	// Input reads a response from the learner.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (prompts, hints) distinct from content.
	SystemOutput(ctx context.Context, msg string) error
}
