package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/syllabus/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	interactive bool // reading from a terminal; prompts are shown
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the lesson renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerInteractive forces prompt display on or off.
func WithTextHandlerInteractive(interactive bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.interactive = interactive
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		interactive: IsTerminal(r),
		Reader:      bufio.NewReader(r),
		Writer:      w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, ev Event) (bool, error) {
	switch ev.Type {
	case EventTopic:
		if ev.Session == nil || ev.Session.Topic == nil {
			return false, fmt.Errorf("topic event without a topic")
		}
		fmt.Fprint(h.Writer, FormatTopic(ev.Session))
		if ev.Session.Lesson != "" {
			fmt.Fprintln(h.Writer)
			fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(ev.Session.Lesson)))
		}
		fmt.Fprintln(h.Writer)
		return true, nil
	case EventCompleted:
		if ev.Session != nil && ev.Session.Topic != nil {
			fmt.Fprintf(h.Writer, "Logged %s as complete.\n", ev.Session.Topic.ID)
		}
	case EventCurriculumComplete:
		fmt.Fprintln(h.Writer, "Curriculum complete. Every topic is in the ledger.")
	}
	return false, nil
}

func (h *TextHandler) render(content string) string {
	if h.Renderer == nil {
		return content
	}
	rendered, err := h.Renderer(content)
	if err != nil {
		return content
	}
	return rendered
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			if h.interactive {
				fmt.Fprint(h.Writer, "> ")
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// FormatTopic renders a prepared session as plain text: header, description,
// numbered steps and the workspace report.
func FormatTopic(s *domain.Session) string {
	var b strings.Builder
	t := s.Topic

	header := fmt.Sprintf("Topic %s [%s]", t.ID, t.Category)
	if t.Sprint != "" {
		header += fmt.Sprintf(" (sprint %s)", t.Sprint)
	}
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, strings.Repeat("=", len(header)))
	if t.Description != "" {
		fmt.Fprintln(&b, t.Description)
	}
	if len(t.Steps) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Steps:")
		for i, step := range t.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}
	if len(s.Report.Changes) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Workspace: %s\n", s.Report.Strategy)
		b.WriteString(FormatReport(s.Report))
	}
	return b.String()
}

// FormatReport renders one line per path change.
func FormatReport(r domain.MutationReport) string {
	var b strings.Builder
	for _, c := range r.Changes {
		path := c.Path
		if c.Kind == domain.PathDir {
			path += "/"
		}
		switch c.Status {
		case domain.ChangeCreated:
			fmt.Fprintf(&b, "  + %s\n", path)
		case domain.ChangeModified:
			fmt.Fprintf(&b, "  ~ %s\n", path)
		case domain.ChangePresent:
			fmt.Fprintf(&b, "  = %s\n", path)
		case domain.ChangeConflict:
			fmt.Fprintf(&b, "  ! %s (left untouched)\n", path)
		}
	}
	return b.String()
}
