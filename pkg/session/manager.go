package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
)

// DefaultLearner is the lock key used when no learner is configured.
const DefaultLearner = "default"

// DefaultLockTTL bounds how long a crashed process can hold the distributed lock.
const DefaultLockTTL = 30 * time.Second

// Controller runs the session state machine.
type Controller interface {
	Begin(ctx context.Context) (*domain.Session, error)
	Confirm(ctx context.Context, s *domain.Session) (*domain.Session, error)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs Begin and Confirm one at a time per learner and tracks the open
// session. A learner has at most one open session: beginning again replaces it.
type Manager struct {
	ctrl    Controller
	learner string

	mu    sync.Mutex
	locks map[string]*lockEntry

	sessMu  sync.RWMutex
	current *domain.Session

	locker ports.DistributedLocker
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLearner sets the learner id used as the lock key.
func WithLearner(learner string) Option {
	return func(m *Manager) {
		if learner != "" {
			m.learner = learner
		}
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager driving ctrl.
func NewManager(ctrl Controller, opts ...Option) *Manager {
	m := &Manager{
		ctrl:    ctrl,
		learner: DefaultLearner,
		locks:   make(map[string]*lockEntry),
		ttl:     DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Learner returns the lock key.
func (m *Manager) Learner() string {
	return m.learner
}

// Begin opens a session for the next topic. Sessions that end Done or fail are not kept open.
func (m *Manager) Begin(ctx context.Context) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, m.learner, func(ctx context.Context) error {
		var err error
		sess, err = m.ctrl.Begin(ctx)

		m.sessMu.Lock()
		defer m.sessMu.Unlock()
		if prev := m.current; prev != nil && sess != nil && prev.ID != sess.ID {
			m.logger.Debug("replacing open session", "session_id", prev.ID, "by", sess.ID)
		}
		m.current = nil
		if err == nil && sess != nil && sess.State == domain.StateAwaitingLearnerWork {
			m.current = sess
		}
		return err
	})
	return sess, err
}

// Confirm records completion of the open session with the given id and closes it.
func (m *Manager) Confirm(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, m.learner, func(ctx context.Context) error {
		open, err := m.Session(sessionID)
		if err != nil {
			return err
		}
		sess, err = m.ctrl.Confirm(ctx, open)
		if err != nil {
			return err
		}

		m.sessMu.Lock()
		if m.current != nil && m.current.ID == sessionID {
			m.current = nil
		}
		m.sessMu.Unlock()
		return nil
	})
	return sess, err
}

// Session returns the open session with the given id.
func (m *Manager) Session(sessionID string) (*domain.Session, error) {
	m.sessMu.RLock()
	defer m.sessMu.RUnlock()
	if m.current == nil || m.current.ID != sessionID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return m.current, nil
}

// Current returns the open session, if any.
func (m *Manager) Current() (*domain.Session, bool) {
	m.sessMu.RLock()
	defer m.sessMu.RUnlock()
	return m.current, m.current != nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the in-process lock for key and, when
// configured, the distributed one.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.ttl)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The caller's context may already be canceled; the lock still has to go.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"learner", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
