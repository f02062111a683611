package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Confirmer decides whether the learner finished the session's topic.
// It returns false to stop without logging. io.EOF means input ended.
type Confirmer func(ctx context.Context, s *domain.Session) (bool, error)

// AutoConfirm accepts every topic without asking.
func AutoConfirm() Confirmer {
	return func(ctx context.Context, s *domain.Session) (bool, error) {
		return true, nil
	}
}

// PromptConfirm asks through the handler until the learner answers with a
// known word.
func PromptConfirm(handler IOHandler) Confirmer {
	return func(ctx context.Context, s *domain.Session) (bool, error) {
		id := ""
		if s != nil && s.Topic != nil {
			id = s.Topic.ID
		}
		if err := handler.SystemOutput(ctx, fmt.Sprintf("Type 'done' when you have finished %s, or 'quit' to stop.", id)); err != nil {
			return false, err
		}
		for {
			input, err := handler.Input(ctx)
			if err != nil {
				return false, err
			}
			switch ParseAnswer(input) {
			case AnswerDone:
				return true, nil
			case AnswerQuit:
				return false, nil
			case AnswerUnknown:
				if err := handler.SystemOutput(ctx, fmt.Sprintf("Unrecognized answer %q. Type 'done' or 'quit'.", input)); err != nil {
					return false, err
				}
			}
		}
	}
}

// Answer is a normalized learner reply.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerEmpty
	AnswerDone
	AnswerQuit
)

// ParseAnswer maps free text onto an Answer.
func ParseAnswer(input string) Answer {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return AnswerEmpty
	case "done", "d", "y", "yes", "ok":
		return AnswerDone
	case "quit", "exit", "q", "n", "no":
		return AnswerQuit
	}
	return AnswerUnknown
}
