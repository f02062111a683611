package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/syllabus/pkg/domain"
)

// nopController never touches any store.
type nopController struct{}

func (nopController) Begin(ctx context.Context) (*domain.Session, error) {
	return &domain.Session{ID: "s", State: domain.StateDone}, nil
}

func (nopController) Confirm(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	return s, nil
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopController{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("learner-%d", i)
		_ = mgr.WithLock(ctx, key, func(context.Context) error { return nil })
	}
	_, _ = mgr.Begin(ctx)

	lockCount := len(mgr.locks)
	t.Logf("Keys Locked: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", lockCount)
	}
	if mgr.current != nil {
		t.Errorf("Done sessions must not be kept open, got %s", mgr.current.ID)
	}
}
