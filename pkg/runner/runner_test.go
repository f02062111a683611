package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/internal/runtime"
	"github.com/aretw0/syllabus/pkg/adapters/memory"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/runner"
)

func newController(t *testing.T, topics ...domain.Topic) (*runtime.Controller, *memory.Store) {
	t.Helper()
	if len(topics) == 0 {
		topics = []domain.Topic{
			{ID: "sql-1-ac1", Category: "sql", Description: "Select rows", Steps: []string{"Open the console", "Run a query"}},
			{ID: "git-1-ac1", Category: "git", Description: "Commit a change"},
		}
	}
	catalog, err := memory.NewCatalog(topics)
	require.NoError(t, err)
	ledger := memory.NewStore()
	return runtime.NewController(catalog, ledger, t.TempDir()), ledger
}

func completed(t *testing.T, ledger *memory.Store) []string {
	t.Helper()
	l, err := ledger.Load(context.Background())
	require.NoError(t, err)
	var ids []string
	for _, e := range l.Entries() {
		ids = append(ids, e.TopicID)
	}
	return ids
}

func TestRunner_ConfirmsTopic(t *testing.T) {
	ctrl, ledger := newController(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(runner.WithIO(strings.NewReader("done\n"), out))
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Equal(t, []string{"sql-1-ac1"}, completed(t, ledger))
	output := out.String()
	assert.Contains(t, output, "Topic sql-1-ac1 [sql]")
	assert.Contains(t, output, "  1. Open the console")
	assert.Contains(t, output, "  + sql-practice/")
	assert.Contains(t, output, "Type 'done' when you have finished sql-1-ac1")
	assert.Contains(t, output, "Logged sql-1-ac1 as complete.")
	assert.NotContains(t, output, "git-1-ac1", "without loop the runner stops after one topic")
}

func TestRunner_QuitLogsNothing(t *testing.T) {
	for _, input := range []string{"quit\n", "exit\n", ""} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			ctrl, ledger := newController(t)
			r := runner.NewRunner(runner.WithIO(strings.NewReader(input), &bytes.Buffer{}))

			require.NoError(t, r.Run(context.Background(), ctrl))
			assert.Empty(t, completed(t, ledger))
		})
	}
}

func TestRunner_RepromptsOnUnknownAnswer(t *testing.T) {
	ctrl, ledger := newController(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(runner.WithIO(strings.NewReader("maybe\n\ndone\n"), out))
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Contains(t, out.String(), `Unrecognized answer "maybe"`)
	assert.Equal(t, []string{"sql-1-ac1"}, completed(t, ledger))
}

func TestRunner_LoopWithAutoConfirm(t *testing.T) {
	ctrl, ledger := newController(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(
		runner.WithIO(strings.NewReader(""), out),
		runner.WithAutoConfirm(true),
		runner.WithLoop(true),
	)
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Equal(t, []string{"sql-1-ac1", "git-1-ac1"}, completed(t, ledger))
	assert.Contains(t, out.String(), "Curriculum complete.")
	assert.NotContains(t, out.String(), "[System]")
}

func TestRunner_LoopStopsOnQuit(t *testing.T) {
	ctrl, ledger := newController(t)

	r := runner.NewRunner(runner.WithIO(strings.NewReader("y\nq\n"), &bytes.Buffer{}), runner.WithLoop(true))
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Equal(t, []string{"sql-1-ac1"}, completed(t, ledger))
}

func TestRunner_BeginErrorStops(t *testing.T) {
	ctrl, ledger := newController(t, domain.Topic{ID: "legacy-1", Category: "cobol"})

	r := runner.NewRunner(runner.WithIO(strings.NewReader("done\n"), &bytes.Buffer{}))
	err := r.Run(context.Background(), ctrl)

	assert.ErrorIs(t, err, domain.ErrUnclassifiedCategory)
	assert.Empty(t, completed(t, ledger))
}

func TestRunner_RendersLesson(t *testing.T) {
	topics := []domain.Topic{{ID: "sql-1-ac1", Category: "sql", Description: "Select rows"}}
	catalog, err := memory.NewCatalog(topics)
	require.NoError(t, err)
	lessons := memory.NewLessons(map[string]string{"sql-1-ac1": "# SELECT basics"})
	ctrl := runtime.NewController(catalog, memory.NewStore(), t.TempDir(), runtime.WithLessons(lessons))

	renderer := func(s string) (string, error) { return "Rendered: " + s, nil }

	t.Run("Renderer", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := runner.NewRunner(runner.WithIO(strings.NewReader("quit\n"), out), runner.WithRenderer(renderer))
		require.NoError(t, r.Run(context.Background(), ctrl))
		assert.Contains(t, out.String(), "Rendered: # SELECT basics")
	})

	t.Run("Headless", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := runner.NewRunner(runner.WithIO(strings.NewReader("quit\n"), out), runner.WithRenderer(renderer), runner.WithHeadless(true))
		require.NoError(t, r.Run(context.Background(), ctrl))
		assert.Contains(t, out.String(), "# SELECT basics")
		assert.NotContains(t, out.String(), "Rendered:")
	})
}

func TestRunner_CustomConfirmer(t *testing.T) {
	ctrl, ledger := newController(t)
	var asked []string

	r := runner.NewRunner(
		runner.WithIO(strings.NewReader(""), &bytes.Buffer{}),
		runner.WithConfirmer(func(_ context.Context, s *domain.Session) (bool, error) {
			asked = append(asked, s.Topic.ID)
			return len(asked) < 2, nil
		}),
		runner.WithLoop(true),
	)
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Equal(t, []string{"sql-1-ac1", "git-1-ac1"}, asked)
	assert.Equal(t, []string{"sql-1-ac1"}, completed(t, ledger))
}

func TestRunner_JSONHandler(t *testing.T) {
	ctrl, ledger := newController(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"done\"\n"), out)))
	require.NoError(t, r.Run(context.Background(), ctrl))

	assert.Equal(t, []string{"sql-1-ac1"}, completed(t, ledger))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"type":"topic"`)
	assert.Contains(t, lines[1], `"type":"system"`)
	assert.Contains(t, lines[2], `"type":"completed"`)
}
