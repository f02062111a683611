package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIO sets the reader and writer used by the default text handler.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithHeadless sets the runner to headless mode.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the lesson renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithConfirmer configures the confirmation policy.
func WithConfirmer(c Confirmer) Option {
	return func(r *Runner) {
		r.Confirmer = c
	}
}

// WithAutoConfirm accepts each topic without prompting.
func WithAutoConfirm(yes bool) Option {
	return func(r *Runner) {
		r.AutoConfirm = yes
	}
}

// WithLoop keeps running sessions after a confirmed topic.
func WithLoop(loop bool) Option {
	return func(r *Runner) {
		r.Loop = loop
	}
}
