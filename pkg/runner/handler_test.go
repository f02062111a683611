package runner

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/pkg/domain"
)

func TestSanitizeInput(t *testing.T) {
	clean, err := SanitizeInput("done")
	require.NoError(t, err)
	assert.Equal(t, "done", clean)

	clean, err = SanitizeInput("do\x1b[31mne\x00")
	require.NoError(t, err)
	assert.Equal(t, "do[31mne", clean)

	clean, err = SanitizeInput("line\tone\r\n")
	require.NoError(t, err)
	assert.Equal(t, "line\tone\r\n", clean)

	_, err = SanitizeInput("\xff\xfe")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	t.Setenv(EnvMaxInputSize, "4")
	_, err = SanitizeInput("too long")
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestParseAnswer(t *testing.T) {
	cases := map[string]Answer{
		"done":   AnswerDone,
		" Yes ":  AnswerDone,
		"y":      AnswerDone,
		"quit":   AnswerQuit,
		"EXIT":   AnswerQuit,
		"":       AnswerEmpty,
		"   ":    AnswerEmpty,
		"later?": AnswerUnknown,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseAnswer(input), "input %q", input)
	}
}

func TestFormatTopic(t *testing.T) {
	s := &domain.Session{
		Topic: &domain.Topic{ID: "java-1-ac1", Category: "java", Sprint: "2", Description: "Install the JDK", Steps: []string{"Download", "Verify"}},
		Report: domain.MutationReport{
			Strategy: domain.ConsolidatedProject("java-automation", domain.ProjectPrimary),
			Changes: []domain.PathChange{
				{Path: "java-automation", Kind: domain.PathDir, Status: domain.ChangePresent},
				{Path: "java-automation/pom.xml", Kind: domain.PathFile, Status: domain.ChangeConflict},
				{Path: "java-automation/a.properties", Kind: domain.PathFile, Status: domain.ChangeModified},
				{Path: "java-automation/B.java", Kind: domain.PathFile, Status: domain.ChangeCreated},
			},
		},
	}

	out := FormatTopic(s)
	assert.True(t, strings.HasPrefix(out, "Topic java-1-ac1 [java] (sprint 2)\n"))
	assert.Contains(t, out, "Install the JDK\n")
	assert.Contains(t, out, "  2. Verify\n")
	assert.Contains(t, out, "Workspace: consolidated-project(java-automation, primary-language-project)\n")
	assert.Contains(t, out, "  = java-automation/\n")
	assert.Contains(t, out, "  ! java-automation/pom.xml (left untouched)\n")
	assert.Contains(t, out, "  ~ java-automation/a.properties\n")
	assert.Contains(t, out, "  + java-automation/B.java\n")
}

func TestTextHandler_Input(t *testing.T) {
	out := &strings.Builder{}
	h := NewTextHandler(strings.NewReader("  done  \n"), out)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.Empty(t, out.String(), "no prompt when input is not a terminal")

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InteractivePrompt(t *testing.T) {
	out := &strings.Builder{}
	h := NewTextHandler(strings.NewReader("done\n"), out, WithTextHandlerInteractive(true))

	_, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "> ", out.String())
}

func TestTextHandler_InputHonoursCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_OutputRejectsEmptyTopic(t *testing.T) {
	h := NewTextHandler(strings.NewReader(""), io.Discard)
	_, err := h.Output(context.Background(), Event{Type: EventTopic, Session: &domain.Session{}})
	assert.Error(t, err)
}

func TestJSONHandler_Input(t *testing.T) {
	h := NewJSONHandler(strings.NewReader("\"done\"\njust plain text\nlast"), io.Discard)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "just plain text", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last", val)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_Output(t *testing.T) {
	out := &strings.Builder{}
	h := NewJSONHandler(strings.NewReader(""), out)

	needsInput, err := h.Output(context.Background(), Event{Type: EventCurriculumComplete})
	require.NoError(t, err)
	assert.False(t, needsInput)
	require.NoError(t, h.SystemOutput(context.Background(), "hello"))

	assert.Equal(t, "{\"type\":\"curriculum_complete\"}\n{\"type\":\"system\",\"message\":\"hello\"}\n", out.String())
}

func TestSignalManager_Lifecycle(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	sm := NewSignalManager(parent)
	defer sm.Stop()

	ctx1 := sm.Context()
	assert.NoError(t, ctx1.Err())

	sm.Reset()
	ctx2 := sm.Context()
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "reset cancels the previous context")
	assert.NoError(t, ctx2.Err())
	assert.False(t, sm.Interrupted())

	cancelParent()
	<-ctx2.Done()
	assert.False(t, sm.Interrupted(), "parent cancellation is not an interrupt")
}

func TestSignalManager_CheckRace(t *testing.T) {
	sm := NewSignalManager(context.Background())
	defer sm.Stop()

	start := time.Now()
	sm.CheckRace()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}
