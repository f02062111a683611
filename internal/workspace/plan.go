// Package workspace brings the learner's practice workspace in line with a topic.
//
// Work is split in two steps. BuildPlan inspects any fs.FS and computes the operations a
// topic needs without touching disk. Apply executes a plan against a real directory,
// creating files exclusively so that nothing the learner wrote is ever overwritten.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/aretw0/syllabus/pkg/domain"
)

// OpKind is the kind of a planned workspace operation.
type OpKind string

const (
	OpMkdir  OpKind = "mkdir"
	OpWrite  OpKind = "write"
	OpAppend OpKind = "append"
)

// Operation is one planned change. Path is slash-separated and relative to the workspace root.
// Status is the expected outcome computed against the inspected filesystem.
type Operation struct {
	Path    string
	Kind    OpKind
	Content string
	Status  domain.ChangeStatus
}

// Pending reports whether the operation still has to touch the filesystem.
func (o Operation) Pending() bool {
	return o.Status == domain.ChangeCreated || o.Status == domain.ChangeModified
}

func (o Operation) change() domain.PathChange {
	kind := domain.PathFile
	if o.Kind == OpMkdir {
		kind = domain.PathDir
	}
	return domain.PathChange{Path: o.Path, Kind: kind, Status: o.Status}
}

// Plan is the ordered set of operations for one topic.
type Plan struct {
	Strategy domain.Strategy
	Scaffold bool
	Ops      []Operation
}

// Report renders the plan as a MutationReport.
func (p Plan) Report() domain.MutationReport {
	r := domain.MutationReport{Strategy: p.Strategy, Scaffold: p.Scaffold, Changes: make([]domain.PathChange, 0, len(p.Ops))}
	for _, op := range p.Ops {
		r.Changes = append(r.Changes, op.change())
	}
	return r
}

// Pending returns the number of operations that would modify the workspace.
func (p Plan) Pending() int {
	n := 0
	for _, op := range p.Ops {
		if op.Pending() {
			n++
		}
	}
	return n
}

// Planner computes plans. Its scaffold templates are swappable for tests and embedding.
type Planner struct {
	templates fs.FS
}

// NewPlanner creates a planner over the given scaffold templates.
// A nil templates FS selects the built-in scaffolds.
func NewPlanner(templates fs.FS) *Planner {
	if templates == nil {
		templates = builtinTemplates()
	}
	return &Planner{templates: templates}
}

var defaultPlanner = NewPlanner(nil)

// BuildPlan computes the operations for topic under strategy using the built-in scaffolds.
// fsys is rooted at the workspace directory.
func BuildPlan(fsys fs.FS, strategy domain.Strategy, topic domain.Topic) (Plan, error) {
	return defaultPlanner.Plan(fsys, strategy, topic)
}

// Plan computes the operations for topic under strategy. fsys is rooted at the workspace directory.
func (p *Planner) Plan(fsys fs.FS, strategy domain.Strategy, topic domain.Topic) (Plan, error) {
	if !fs.ValidPath(strategy.Name) || strategy.Name == "." || strings.Contains(strategy.Name, "/") {
		return Plan{}, fmt.Errorf("%w: strategy directory '%s'", domain.ErrUnsafePath, strategy.Name)
	}

	b := &builder{
		fsys:  fsys,
		plan:  Plan{Strategy: strategy},
		index: make(map[string]int),
		final: make(map[string]string),
	}

	rootStatus, err := b.mkdir(strategy.Name)
	if err != nil {
		return Plan{}, err
	}

	// A file squatting on the directory name blocks everything below it.
	if rootStatus == domain.ChangeConflict || !strategy.IsProject() {
		return b.plan, nil
	}

	if rootStatus == domain.ChangeCreated {
		b.plan.Scaffold = true
		files, err := renderScaffold(p.templates, strategy, topic)
		if err != nil {
			return Plan{}, err
		}
		for _, f := range files {
			if err := b.write(path.Join(strategy.Name, f.path), f.content); err != nil {
				return Plan{}, err
			}
		}
	}

	for _, a := range topic.Artifacts {
		rel, err := cleanArtifactPath(a.Path)
		if err != nil {
			return Plan{}, fmt.Errorf("topic %s: %w", topic.ID, err)
		}
		target := path.Join(strategy.Name, rel)
		switch a.EffectiveMode() {
		case domain.ArtifactCreate:
			err = b.write(target, a.Content)
		case domain.ArtifactAppend:
			err = b.append(target, a.Content)
		default:
			err = fmt.Errorf("topic %s: artifact %s: unknown mode '%s'", topic.ID, a.Path, a.Mode)
		}
		if err != nil {
			return Plan{}, err
		}
	}

	return b.plan, nil
}

// builder accumulates operations, tracking the content each file will have once the
// earlier operations of the same plan ran, so later ones see a consistent picture.
type builder struct {
	fsys  fs.FS
	plan  Plan
	index map[string]int    // path -> latest op position
	final map[string]string // path -> file content after the plan
}

func (b *builder) add(op Operation) {
	b.index[op.Path] = len(b.plan.Ops)
	b.plan.Ops = append(b.plan.Ops, op)
}

func (b *builder) mkdir(p string) (domain.ChangeStatus, error) {
	info, err := fs.Stat(b.fsys, p)
	status := domain.ChangeCreated
	switch {
	case err == nil && info.IsDir():
		status = domain.ChangePresent
	case err == nil:
		status = domain.ChangeConflict
	case !errors.Is(err, fs.ErrNotExist):
		return "", domain.NewIOError("stat", p, err)
	}
	b.add(Operation{Path: p, Kind: OpMkdir, Status: status})
	return status, nil
}

func (b *builder) write(p, content string) error {
	if i, ok := b.index[p]; ok {
		prev := b.plan.Ops[i]
		if prev.Kind == OpMkdir || prev.Status == domain.ChangeConflict || b.final[p] != content {
			b.add(Operation{Path: p, Kind: OpWrite, Content: content, Status: domain.ChangeConflict})
		}
		return nil
	}

	status, existing, err := b.inspect(p)
	if err != nil {
		return err
	}
	switch status {
	case domain.ChangeCreated:
		b.final[p] = content
	case domain.ChangePresent:
		b.final[p] = existing
		if existing != content {
			status = domain.ChangeConflict
		}
	}
	b.add(Operation{Path: p, Kind: OpWrite, Content: content, Status: status})
	return nil
}

func (b *builder) append(p, content string) error {
	block := normalizeBlock(content)

	if i, ok := b.index[p]; ok {
		prev := &b.plan.Ops[i]
		if prev.Kind == OpMkdir || prev.Status == domain.ChangeConflict {
			b.add(Operation{Path: p, Kind: OpAppend, Content: block, Status: domain.ChangeConflict})
			return nil
		}
		if containsBlock(b.final[p], block) {
			return nil
		}
		// Fold into the earlier operation on the same file.
		b.final[p] = joinBlock(b.final[p], block)
		switch prev.Status {
		case domain.ChangeCreated:
			prev.Content = b.final[p]
		case domain.ChangePresent:
			prev.Kind, prev.Status, prev.Content = OpAppend, domain.ChangeModified, block
		case domain.ChangeModified:
			prev.Content = joinBlock(prev.Content, block)
		}
		return nil
	}

	status, existing, err := b.inspect(p)
	if err != nil {
		return err
	}
	switch status {
	case domain.ChangeCreated:
		b.final[p] = block
	case domain.ChangePresent:
		b.final[p] = existing
		if !containsBlock(existing, block) {
			status = domain.ChangeModified
			b.final[p] = joinBlock(existing, block)
		}
	}
	b.add(Operation{Path: p, Kind: OpAppend, Content: block, Status: status})
	return nil
}

// inspect classifies a file path: created (absent), present (regular file, content returned)
// or conflict (a directory, or an ancestor that is a file).
func (b *builder) inspect(p string) (domain.ChangeStatus, string, error) {
	for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
		info, err := fs.Stat(b.fsys, dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", "", domain.NewIOError("stat", dir, err)
		}
		if !info.IsDir() {
			return domain.ChangeConflict, "", nil
		}
		break
	}

	info, err := fs.Stat(b.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ChangeCreated, "", nil
	}
	if err != nil {
		return "", "", domain.NewIOError("stat", p, err)
	}
	if info.IsDir() {
		return domain.ChangeConflict, "", nil
	}

	data, err := fs.ReadFile(b.fsys, p)
	if err != nil {
		return "", "", domain.NewIOError("read", p, err)
	}
	return domain.ChangePresent, string(data), nil
}

func cleanArtifactPath(p string) (string, error) {
	if p == "" || strings.Contains(p, `\`) || path.IsAbs(p) {
		return "", fmt.Errorf("%w: artifact path '%s'", domain.ErrUnsafePath, p)
	}
	clean := path.Clean(p)
	if clean == "." || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: artifact path '%s'", domain.ErrUnsafePath, p)
	}
	return clean, nil
}

// normalizeBlock terminates a block with exactly one newline.
func normalizeBlock(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	return s + "\n"
}

// containsBlock reports whether the lines of block appear in existing as a
// contiguous run of complete lines.
func containsBlock(existing, block string) bool {
	want := splitLines(block)
	if len(want) == 0 {
		return true
	}
	have := splitLines(existing)
	for i := 0; i+len(want) <= len(have); i++ {
		if slices.Equal(have[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func joinBlock(existing, block string) string {
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}
	return existing + block
}
