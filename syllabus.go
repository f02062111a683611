package syllabus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/syllabus/internal/classifier"
	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/internal/runtime"
	"github.com/aretw0/syllabus/internal/validator"
	"github.com/aretw0/syllabus/pkg/adapters/catalog"
	"github.com/aretw0/syllabus/pkg/adapters/file"
	loamAdapter "github.com/aretw0/syllabus/pkg/adapters/loam"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
	"github.com/aretw0/syllabus/pkg/runner"
	"github.com/aretw0/syllabus/pkg/session"
)

// Default locations inside a curriculum directory.
const (
	DefaultCatalogFile = "curriculum.yaml"
	DefaultLessonsDir  = "lessons"
	DefaultWorkspace   = "workspace"
)

// Status is a read-only summary of the learner's progress.
type Status = runtime.Status

// ValidationReport lists catalog errors and lesson warnings.
type ValidationReport = validator.Report

// Engine is the high-level entry point for the syllabus library.
// It wires the catalog, ledger and lesson stores into a session controller and
// serializes sessions per learner.
type Engine struct {
	controller *runtime.Controller
	sessions   *session.Manager

	catalog   ports.CatalogSource
	ledger    ports.LedgerStore
	lessons   ports.LessonStore
	locker    ports.DistributedLocker
	workspace string
	learner   string

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog injects a catalog source, bypassing the default curriculum file.
func WithCatalog(source ports.CatalogSource) Option {
	return func(e *Engine) {
		e.catalog = source
	}
}

// WithLedger injects a ledger store, bypassing the default JSONL file.
func WithLedger(store ports.LedgerStore) Option {
	return func(e *Engine) {
		e.ledger = store
	}
}

// WithLessons injects a lesson store, bypassing the default Loam repository.
func WithLessons(store ports.LessonStore) Option {
	return func(e *Engine) {
		e.lessons = store
	}
}

// WithWorkspace sets the workspace root the sessions mutate.
func WithWorkspace(root string) Option {
	return func(e *Engine) {
		e.workspace = root
	}
}

// WithLocker enables distributed locking around sessions.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLearner sets the learner id used as the session lock key.
func WithLearner(learner string) Option {
	return func(e *Engine) {
		e.learner = learner
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source for ledger timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// New initializes an Engine for the curriculum directory dir.
// By default it reads dir/curriculum.yaml, the Loam lesson repository at dir/lessons
// (when present), records progress in dir/.syllabus/progress.jsonl and prepares the
// workspace at dir/workspace. Options replace any of these.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if dir == "" {
		dir = "."
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	eng.Name = filepath.Base(absPath)

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("curriculum", eng.Name)

	if eng.catalog == nil {
		eng.catalog = catalog.NewFile(filepath.Join(absPath, DefaultCatalogFile))
	}
	if eng.ledger == nil {
		eng.ledger = file.New(filepath.Join(absPath, file.DefaultPath))
	}
	if eng.lessons == nil {
		lessons, err := OpenLessons(filepath.Join(absPath, DefaultLessonsDir))
		if err != nil {
			return nil, err
		}
		if lessons != nil {
			eng.lessons = lessons
		} else {
			eng.logger.Debug("no lesson repository", "dir", filepath.Join(absPath, DefaultLessonsDir))
		}
	}
	if eng.workspace == "" {
		eng.workspace = filepath.Join(absPath, DefaultWorkspace)
	}

	ctrlOpts := []runtime.Option{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	if eng.lessons != nil {
		ctrlOpts = append(ctrlOpts, runtime.WithLessons(eng.lessons))
	}
	if eng.now != nil {
		ctrlOpts = append(ctrlOpts, runtime.WithClock(eng.now))
	}
	if eng.newID != nil {
		ctrlOpts = append(ctrlOpts, runtime.WithIDGenerator(eng.newID))
	}
	eng.controller = runtime.NewController(eng.catalog, eng.ledger, eng.workspace, ctrlOpts...)

	sessOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.learner != "" {
		sessOpts = append(sessOpts, session.WithLearner(eng.learner))
	}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.controller, sessOpts...)

	return eng, nil
}

// OpenLessons opens the Loam lesson repository at dir. It returns nil when the directory does not exist.
func OpenLessons(dir string) (ports.LessonStore, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewIOError("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("lessons path %s is not a directory", dir)
	}
	lessons, err := loamAdapter.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open lessons: %w", err)
	}
	return lessons, nil
}

// Begin resolves the next topic, prepares the workspace and opens a session.
func (e *Engine) Begin(ctx context.Context) (*domain.Session, error) {
	return e.sessions.Begin(ctx)
}

// Confirm records completion of the open session with the given id.
func (e *Engine) Confirm(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.sessions.Confirm(ctx, sessionID)
}

// Session returns an open session by id.
func (e *Engine) Session(sessionID string) (*domain.Session, error) {
	return e.sessions.Session(sessionID)
}

// Current returns the learner's open session, if any.
func (e *Engine) Current() (*domain.Session, bool) {
	return e.sessions.Current()
}

// Status reports progress without touching the workspace.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	return e.controller.Status(ctx)
}

// Lesson returns the lesson content for a topic.
func (e *Engine) Lesson(ctx context.Context, topicID string) (string, error) {
	return e.controller.Lesson(ctx, topicID)
}

// Catalog loads the curriculum.
func (e *Engine) Catalog(ctx context.Context) (*domain.Catalog, error) {
	return e.catalog.Load(ctx)
}

// Ledger loads the completion ledger.
func (e *Engine) Ledger(ctx context.Context) (domain.Ledger, error) {
	return e.ledger.Load(ctx)
}

// Classify maps a topic to its strategy with the catalog's extra rules applied.
func (e *Engine) Classify(catalog *domain.Catalog, topic domain.Topic) (domain.Strategy, error) {
	return e.controller.Classify(catalog, topic)
}

// Validate checks every topic of the catalog: classification, artifact paths and
// lesson presence. Loading errors (schema, duplicate ids) are returned as errors.
func (e *Engine) Validate(ctx context.Context) (ValidationReport, error) {
	c, err := e.catalog.Load(ctx)
	if err != nil {
		return ValidationReport{}, err
	}
	cl, err := classifierFor(c)
	if err != nil {
		return ValidationReport{}, err
	}
	return validator.ValidateCatalog(ctx, c, cl, e.lessons), nil
}

func classifierFor(c *domain.Catalog) (*classifier.Classifier, error) {
	rules := c.Rules()
	if len(rules) == 0 {
		return classifier.Default(), nil
	}
	cl, err := classifier.Extend(rules...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return cl, nil
}

// Workspace returns the workspace root.
func (e *Engine) Workspace() string {
	return e.workspace
}

// Interactive adapts the engine to the runner loop. Sessions still go through
// the per-learner lock.
func (e *Engine) Interactive() runner.Controller {
	return interactive{e}
}

type interactive struct {
	e *Engine
}

func (i interactive) Begin(ctx context.Context) (*domain.Session, error) {
	return i.e.Begin(ctx)
}

func (i interactive) Confirm(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil session", domain.ErrInvalidTransition)
	}
	return i.e.Confirm(ctx, s.ID)
}
