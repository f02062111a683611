/*
Package runner implements the interactive session loop and its I/O.

It bridges the session controller and the terminal (or a host process speaking
JSON-Lines). A run begins a session, presents the prepared topic, waits for the
learner to answer and logs the completion.

# Key Components

  - Runner: The loop. It stops after one topic unless Loop is set.
  - IOHandler: Decouples how events are shown and answers are read.
  - TextHandler: Plain text for interactive CLI usage, with an optional markdown renderer.
  - JSONHandler: One JSON event per line for scripted hosts.
  - Confirmer: The confirmation policy (prompt or auto-confirm).

# Usage

	r := runner.NewRunner(
		runner.WithRenderer(tui.NewRenderer()),
		runner.WithLoop(true),
	)

	if err := r.Run(ctx, controller); err != nil {
		log.Fatal(err)
	}

Interrupting a run while it waits returns ErrInterrupted. Nothing is logged for
the open topic and the next run resolves it again.
*/
package runner
