package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
)

// ErrInterrupted is returned when a signal stops the runner while it waits.
// Nothing is logged for the open topic; the next run resolves it again.
var ErrInterrupted = errors.New("interrupted")

// Controller is the session state machine the runner drives.
type Controller interface {
	Begin(ctx context.Context) (*domain.Session, error)
	Confirm(ctx context.Context, s *domain.Session) (*domain.Session, error)
}

// ContentRenderer is a function that transforms lesson content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner handles the interactive loop: begin a session, present the topic,
// wait for the learner, confirm.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input/Output is used.
	Handler IOHandler

	// Confirmer decides whether to log the topic. If nil, the learner is prompted,
	// or every topic is accepted when AutoConfirm is set.
	Confirmer Confirmer

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	Input  io.Reader
	Output io.Writer

	// Headless disables lesson rendering in the default text handler.
	Headless    bool
	Renderer    ContentRenderer
	AutoConfirm bool
	Loop        bool
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes sessions until the learner stops, the curriculum is complete or,
// without Loop, after the first confirmed topic.
func (r *Runner) Run(ctx context.Context, ctrl Controller) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler := r.resolveHandler()
	confirm := r.resolveConfirmer(handler)

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		current := signals.Context()

		s, err := ctrl.Begin(current)
		if err != nil {
			if signals.Interrupted() {
				return ErrInterrupted
			}
			return err
		}

		if s.Done() {
			_, err := handler.Output(current, Event{Type: EventCurriculumComplete, Session: s})
			return err
		}

		if _, err := handler.Output(current, Event{Type: EventTopic, Session: s}); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		ok, err := confirm(current, s)
		if err != nil {
			signals.CheckRace()
			if signals.Interrupted() {
				r.Logger.Debug("runner interrupted while waiting", "topic", s.Topic.ID)
				return ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("input closed", "topic", s.Topic.ID)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if !ok {
			r.Logger.Debug("learner stopped", "topic", s.Topic.ID)
			return nil
		}

		// The ledger write is not interrupted halfway.
		done, err := ctrl.Confirm(context.WithoutCancel(current), s)
		if err != nil {
			return err
		}
		if _, err := handler.Output(current, Event{Type: EventCompleted, Session: done}); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if !r.Loop {
			return nil
		}
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	renderer := r.Renderer
	if r.Headless {
		// Plain markdown, no ANSI.
		renderer = nil
	}
	th := NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(renderer))
	// Memoize to prevent creating new pumps on subsequent Run calls
	r.Handler = th
	return th
}

func (r *Runner) resolveConfirmer(h IOHandler) Confirmer {
	if r.Confirmer != nil {
		return r.Confirmer
	}
	if r.AutoConfirm {
		return AutoConfirm()
	}
	return PromptConfirm(h)
}
