package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/runner"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on Stderr, keeping Stdout for
// the session text, NDJSON or MCP streams. Warnings such as stale ledger
// references are always shown; debug mode adds everything else.
func createLogger(debug bool) *slog.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug)
	}
	return logging.NewWithWriter(w, slog.LevelWarn)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// createDebugHooks logs every controller event at debug level.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Session Transition", "session_id", e.SessionID, "from", e.From, "to", e.To, "topic", e.TopicID)
		},
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.Debug("Workspace Prepared", "session_id", e.SessionID, "topic", e.TopicID,
				"strategy", e.Report.Strategy.String(), "changes", len(e.Report.Changes))
		},
		OnComplete: func(ctx context.Context, e *domain.CompleteEvent) {
			if e.Skipped {
				logger.Debug("Ledger Append Skipped", "session_id", e.SessionID, "topic", e.Entry.TopicID)
			} else {
				logger.Debug("Ledger Append", "session_id", e.SessionID, "topic", e.Entry.TopicID)
			}
		},
	}
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, runner.ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}

// HandleExecutionError drops interruptions so they exit with status 0.
func HandleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		return nil
	}
	return err
}

// ExitCode maps an execution error onto the process exit status.
func ExitCode(err error) int {
	if HandleExecutionError(err) == nil {
		return 0
	}
	return 1
}

// Hint returns a remedy for errors the learner or the author can fix.
func Hint(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnclassifiedCategory):
		return "add the category to the catalog's strategies section"
	case errors.Is(err, domain.ErrUnsafePath):
		return "artifact paths must stay inside the topic's workspace directory"
	case domain.IsIOError(err):
		return "check permissions on the workspace and ledger paths"
	}
	return ""
}

func logCompletion(w io.Writer, err error, debug bool) {
	if !errors.Is(err, runner.ErrInterrupted) {
		return
	}
	if debug {
		// Debug mode: Logs likely interrupted the prompt line. Restore context.
		fmt.Fprintf(w, "> [CTRL+C]\n")
	} else {
		fmt.Fprintf(w, "[CTRL+C]\n")
	}
	printSystemMessage(w, "Interrupted. Nothing was logged for the open topic.")
}
