package workspace

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Mutator applies plans to a workspace on disk.
type Mutator struct {
	planner *Planner
	logger  *slog.Logger
}

// Option configures the Mutator.
type Option func(*Mutator)

// WithLogger sets the logger used for per-operation debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mutator) {
		m.logger = logger
	}
}

// WithTemplates replaces the built-in scaffold templates.
func WithTemplates(templates fs.FS) Option {
	return func(m *Mutator) {
		m.planner = NewPlanner(templates)
	}
}

// NewMutator creates a Mutator.
func NewMutator(opts ...Option) *Mutator {
	m := &Mutator{
		planner: defaultPlanner,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Preview computes the plan for topic without changing the workspace.
// A missing workspace root is treated as empty.
func (m *Mutator) Preview(root string, strategy domain.Strategy, topic domain.Topic) (Plan, error) {
	return m.planner.Plan(os.DirFS(root), strategy, topic)
}

// Apply brings root in line with topic under strategy. It never overwrites or deletes:
// a path holding different content is reported as a conflict and left alone.
//
// On failure the returned report lists the operations carried out so far; they are not
// rolled back. Filesystem failures are returned as *domain.IOError.
func (m *Mutator) Apply(ctx context.Context, root string, strategy domain.Strategy, topic domain.Topic) (domain.MutationReport, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return domain.MutationReport{Strategy: strategy}, domain.NewIOError("mkdir", root, err)
	}

	plan, err := m.Preview(root, strategy, topic)
	if err != nil {
		return domain.MutationReport{Strategy: strategy}, err
	}

	report := domain.MutationReport{Strategy: strategy, Scaffold: plan.Scaffold}
	for _, op := range plan.Ops {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if op.Pending() {
			status, err := m.execute(root, op)
			if err != nil {
				return report, err
			}
			op.Status = status
		}
		m.logger.Debug("workspace operation", "path", op.Path, "op", op.Kind, "status", op.Status)
		report.Changes = append(report.Changes, op.change())
	}
	return report, nil
}

func (m *Mutator) execute(root string, op Operation) (domain.ChangeStatus, error) {
	full := filepath.Join(root, filepath.FromSlash(op.Path))
	switch op.Kind {
	case OpMkdir:
		return makeDir(full, op.Path)
	case OpAppend:
		if op.Status == domain.ChangeModified {
			return appendBlock(full, op.Path, op.Content)
		}
		status, err := createFile(full, op.Path, op.Content)
		if err != nil || status != domain.ChangeConflict {
			return status, err
		}
		// Someone created the file after planning; extend it instead.
		return appendBlock(full, op.Path, op.Content)
	default:
		return createFile(full, op.Path, op.Content)
	}
}

func makeDir(full, rel string) (domain.ChangeStatus, error) {
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return "", domain.NewIOError("mkdir", rel, err)
	}
	err := os.Mkdir(full, dirPerm)
	if err == nil {
		return domain.ChangeCreated, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return "", domain.NewIOError("mkdir", rel, err)
	}
	info, statErr := os.Stat(full)
	if statErr == nil && info.IsDir() {
		return domain.ChangePresent, nil
	}
	return domain.ChangeConflict, nil
}

// createFile writes content to a file that must not exist yet.
// A file that appeared since planning is compared, never replaced.
func createFile(full, rel, content string) (domain.ChangeStatus, error) {
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return "", domain.NewIOError("mkdir", rel, err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		existing, readErr := os.ReadFile(full)
		if readErr == nil && string(existing) == content {
			return domain.ChangePresent, nil
		}
		return domain.ChangeConflict, nil
	}
	if err != nil {
		return "", domain.NewIOError("create", rel, err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(full) // only ever our own, partially written file
		return "", domain.NewIOError("write", rel, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", domain.NewIOError("write", rel, err)
	}
	return domain.ChangeCreated, nil
}

// appendBlock adds block to the end of an existing file unless it is already there.
func appendBlock(full, rel, block string) (domain.ChangeStatus, error) {
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return domain.ChangeConflict, nil
	}
	existing, err := os.ReadFile(full)
	if err != nil {
		return "", domain.NewIOError("read", rel, err)
	}
	if containsBlock(string(existing), block) {
		return domain.ChangePresent, nil
	}

	var buf bytes.Buffer
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(block)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return "", domain.NewIOError("open", rel, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return "", domain.NewIOError("append", rel, err)
	}
	if err := f.Close(); err != nil {
		return "", domain.NewIOError("append", rel, err)
	}
	return domain.ChangeModified, nil
}
