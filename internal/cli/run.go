package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/config"
	"github.com/aretw0/syllabus/internal/presentation/tui"
	"github.com/aretw0/syllabus/pkg/runner"
)

// RunOptions contains all the configuration for the next command.
type RunOptions struct {
	Config   config.Config
	Headless bool
	JSON     bool
	Yes      bool
	Loop     bool
	Input    io.Reader
	Output   io.Writer
	// Stderr receives log records. Defaults to os.Stderr.
	Stderr io.Writer
}

// RunSession presents the next topic and waits for the learner to finish it.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger := newLogger(opts.Stderr, opts.Config.Debug)
	quiet := opts.JSON || opts.Headless

	if !quiet {
		tui.PrintBanner(opts.Output, syllabus.Version)
	}

	engine, err := createEngine(opts.Config, logger)
	if err != nil {
		return err
	}

	// The runner owns SIGINT/SIGTERM handling and reports it as ErrInterrupted.
	r := runner.NewRunner(createRunnerOptions(opts, logger)...)
	runErr := r.Run(ctx, engine.Interactive())

	if ctx.Err() != nil && runErr == nil {
		runErr = ctx.Err()
	}
	if !quiet {
		logCompletion(opts.Output, runErr, opts.Config.Debug)
	}

	return HandleExecutionError(runErr)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(opts RunOptions, logger *slog.Logger) []runner.Option {
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithIO(opts.Input, opts.Output),
		runner.WithHeadless(opts.Headless),
		runner.WithAutoConfirm(opts.Yes),
		runner.WithLoop(opts.Loop),
	}

	switch {
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(opts.Input, opts.Output)))
	case !opts.Headless:
		runnerOpts = append(runnerOpts, runner.WithRenderer(tui.NewRenderer()))
	}
	return runnerOpts
}

// ErrorMessage formats err for the terminal, adding a hint when one applies.
func ErrorMessage(err error) string {
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\nHint: %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}
