package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/syllabus/internal/classifier"
	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/internal/resolver"
	"github.com/aretw0/syllabus/internal/workspace"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
)

// Classifier maps a topic to its workspace strategy.
type Classifier interface {
	Classify(topic domain.Topic) (domain.Strategy, error)
}

// Mutator brings the workspace in line with a topic.
type Mutator interface {
	Apply(ctx context.Context, root string, strategy domain.Strategy, topic domain.Topic) (domain.MutationReport, error)
}

// Controller drives the session state machine:
//
//	Idle -> Resolving -> AwaitingClassification -> Mutating -> AwaitingLearnerWork -> Logging -> Idle
//	Resolving -> Done
//
// It holds no progress of its own. Catalog and ledger are read fresh on every Begin.
type Controller struct {
	catalog    ports.CatalogSource
	ledger     ports.LedgerStore
	lessons    ports.LessonStore
	classifier Classifier
	mutator    Mutator
	root       string

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures the Controller.
type Option func(*Controller)

// WithLessons sets the store used to look up lesson content.
func WithLessons(store ports.LessonStore) Option {
	return func(c *Controller) {
		c.lessons = store
	}
}

// WithClassifier replaces category classification. By default the built-in table is
// used, extended by any rules the catalog declares.
func WithClassifier(cl Classifier) Option {
	return func(c *Controller) {
		c.classifier = cl
	}
}

// WithMutator replaces the workspace mutator.
func WithMutator(m Mutator) Option {
	return func(c *Controller) {
		c.mutator = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for ledger timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		c.newID = gen
	}
}

// NewController creates a controller mutating the workspace at root.
func NewController(catalog ports.CatalogSource, ledger ports.LedgerStore, root string, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		ledger:  ledger,
		root:    root,
		logger:  logging.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mutator == nil {
		c.mutator = workspace.NewMutator(workspace.WithLogger(c.logger))
	}
	return c
}

// Root returns the workspace root.
func (c *Controller) Root() string {
	return c.root
}

// Begin starts a session: it resolves the next topic, classifies it, prepares the
// workspace and looks up the lesson. The returned session is either awaiting the
// learner's work or Done.
//
// On error the session is returned in the state where the failure happened.
func (c *Controller) Begin(ctx context.Context) (*domain.Session, error) {
	s := domain.NewSession(c.newID(), c.now())

	if err := c.transition(ctx, s, domain.StateResolving); err != nil {
		return s, err
	}

	catalog, ledger, err := c.Snapshot(ctx)
	if err != nil {
		return s, err
	}
	c.warnStale(catalog, ledger)

	res := resolver.Resolve(catalog, ledger)
	if res.Complete {
		c.logger.Info("curriculum complete", "session_id", s.ID, "completed", ledger.Len())
		return s, c.transition(ctx, s, domain.StateDone)
	}

	topic := res.Topic
	s.Topic = &topic
	if err := c.transition(ctx, s, domain.StateAwaitingClassification); err != nil {
		return s, err
	}

	strategy, err := c.classify(catalog, topic)
	if err != nil {
		return s, err
	}
	s.Strategy = &strategy
	if err := c.transition(ctx, s, domain.StateMutating); err != nil {
		return s, err
	}

	report, err := c.mutator.Apply(ctx, c.root, strategy, topic)
	s.Report = report
	if err != nil {
		return s, fmt.Errorf("prepare workspace for %s: %w", topic.ID, err)
	}
	c.logger.Info("workspace ready",
		"topic", topic.ID,
		"strategy", strategy.String(),
		"created", report.Created(),
		"modified", report.Modified(),
		"conflicts", report.Conflicts())
	for _, ch := range report.Filter(domain.ChangeConflict) {
		c.logger.Warn("workspace path left untouched", "path", ch.Path, "kind", ch.Kind)
	}
	if c.hooks.OnMutation != nil {
		c.hooks.OnMutation(ctx, &domain.MutationEvent{
			EventBase: c.event(domain.EventMutation, s),
			TopicID:   topic.ID,
			Report:    report,
		})
	}

	s.Lesson = c.lesson(ctx, topic)

	return s, c.transition(ctx, s, domain.StateAwaitingLearnerWork)
}

// Confirm records completion of the session's topic and returns the session to Idle.
// A topic already in the ledger is not appended twice.
//
// Confirm never modifies the passed session; it returns an updated copy.
func (c *Controller) Confirm(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil session", domain.ErrInvalidTransition)
	}
	if s.Done() {
		return s, domain.ErrCurriculumComplete
	}
	next := cloneSession(s)
	if next.Topic == nil {
		return next, fmt.Errorf("%w: session %s has no topic", domain.ErrInvalidTransition, s.ID)
	}

	if err := c.transition(ctx, next, domain.StateLogging); err != nil {
		return next, err
	}

	ledger, err := c.ledger.Load(ctx)
	if err != nil {
		return next, fmt.Errorf("load ledger: %w", err)
	}

	entry := domain.NewLedgerEntry(*next.Topic, next.ID, c.now())
	skipped := ledger.Contains(next.Topic.ID)
	if skipped {
		c.logger.Info("topic already completed", "topic", next.Topic.ID, "session_id", next.ID)
	} else {
		if _, err := c.ledger.Append(ctx, entry); err != nil {
			return next, fmt.Errorf("append ledger: %w", err)
		}
		c.logger.Info("topic completed", "topic", entry.TopicID, "session_id", next.ID)
	}

	if c.hooks.OnComplete != nil {
		c.hooks.OnComplete(ctx, &domain.CompleteEvent{
			EventBase: c.event(domain.EventComplete, next),
			Entry:     entry,
			Skipped:   skipped,
		})
	}

	return next, c.transition(ctx, next, domain.StateIdle)
}

// Snapshot reads the catalog and the ledger.
func (c *Controller) Snapshot(ctx context.Context) (*domain.Catalog, domain.Ledger, error) {
	catalog, err := c.catalog.Load(ctx)
	if err != nil {
		return nil, domain.Ledger{}, fmt.Errorf("load catalog: %w", err)
	}
	ledger, err := c.ledger.Load(ctx)
	if err != nil {
		return nil, domain.Ledger{}, fmt.Errorf("load ledger: %w", err)
	}
	return catalog, ledger, nil
}

// Lesson looks up the lesson content for a topic id.
func (c *Controller) Lesson(ctx context.Context, topicID string) (string, error) {
	if c.lessons == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrLessonNotFound, topicID)
	}
	return c.lessons.Lesson(ctx, topicID)
}

// Classify maps a topic to its strategy using the catalog's extra rules, if any.
func (c *Controller) Classify(catalog *domain.Catalog, topic domain.Topic) (domain.Strategy, error) {
	return c.classify(catalog, topic)
}

func (c *Controller) classify(catalog *domain.Catalog, topic domain.Topic) (domain.Strategy, error) {
	if c.classifier != nil {
		return c.classifier.Classify(topic)
	}
	cl := classifier.Default()
	if rules := catalog.Rules(); len(rules) > 0 {
		extended, err := classifier.Extend(rules...)
		if err != nil {
			return domain.Strategy{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
		cl = extended
	}
	return cl.Classify(topic)
}

// lesson returns the lesson content, or empty when there is none.
// A missing lesson only degrades the presentation to description and steps.
func (c *Controller) lesson(ctx context.Context, topic domain.Topic) string {
	if c.lessons == nil {
		return ""
	}
	content, err := c.lessons.Lesson(ctx, topic.ID)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			c.logger.Warn("no lesson for topic", "topic", topic.ID)
		} else {
			c.logger.Warn("lesson lookup failed", "topic", topic.ID, "err", err)
		}
		return ""
	}
	return content
}

func (c *Controller) warnStale(catalog *domain.Catalog, ledger domain.Ledger) {
	for _, id := range resolver.StaleReferences(catalog, ledger) {
		c.logger.Warn("ledger references unknown topic", "topic", id, "err", domain.ErrStaleLedgerReference)
	}
}

func (c *Controller) transition(ctx context.Context, s *domain.Session, to domain.SessionState) error {
	from := s.State
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	s.State = to
	s.History = append(s.History, to)

	var topicID string
	if s.Topic != nil {
		topicID = s.Topic.ID
	}
	c.logger.Debug("session transition", "session_id", s.ID, "from", from, "to", to, "topic", topicID)
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: c.event(domain.EventTransition, s),
			From:      from,
			To:        to,
			TopicID:   topicID,
		})
	}
	return nil
}

func (c *Controller) event(t domain.EventType, s *domain.Session) domain.EventBase {
	return domain.EventBase{Timestamp: c.now(), Type: t, SessionID: s.ID}
}

func cloneSession(s *domain.Session) *domain.Session {
	out := *s
	out.History = append([]domain.SessionState(nil), s.History...)
	return &out
}
