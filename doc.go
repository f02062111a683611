/*
Package syllabus orchestrates a learner's path through a curriculum, one topic at a time.

A session resolves the first catalog topic missing from the completion ledger, classifies
its category into a workspace strategy, brings the workspace in line with the topic and
waits for the learner. Confirming the session appends the topic to the ledger.

# Concept

The catalog is an ordered list of topics, read from curriculum.yaml. The ledger is an
append-only log of completed topics, re-read before every session, so progress lives in one
place whether the learner uses the CLI, the HTTP API or an assistant over MCP.

Every category maps to one of two strategies:

  - Consolidated project: a long-lived Java or Playwright project that grows with each topic.
  - Conceptual folder: a standalone directory per subject (SQL, Git, test design, ...).

An unmapped category stops the session before anything is written.

# Workspace Safety

Workspace changes are planned first and applied second. Applying never overwrites an existing
file: a file with different content is reported as a conflict and left untouched, and running
the same topic twice reports everything as already present.

# Usage

	eng, err := syllabus.New("./my-course")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	session, err := eng.Begin(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if session.Done() {
		fmt.Println("Curriculum complete.")
		return
	}

	fmt.Println(session.Topic.Description)
	// ... the learner works on the topic ...

	if _, err := eng.Confirm(ctx, session.ID); err != nil {
		log.Fatal(err)
	}

For an interactive terminal loop, pass eng.Interactive() to a runner from pkg/runner.
*/
package syllabus
