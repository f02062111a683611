package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLedgerStoreContract verifies that a LedgerStore implementation is append-only.
// The store must start empty.
func RunLedgerStoreContract(t *testing.T, store ports.LedgerStore) {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first := domain.LedgerEntry{TopicID: "java-1-ac1", Description: "Setup JDK", CompletedAt: at, SessionID: "s-1"}
	second := domain.LedgerEntry{TopicID: "java-1-ac2", Description: "First test", CompletedAt: at.Add(time.Minute), SessionID: "s-2"}
	stale := domain.LedgerEntry{TopicID: "renamed-topic", Description: "Old", CompletedAt: at.Add(2 * time.Minute)}

	t.Run("Load Empty", func(t *testing.T) {
		ledger, err := store.Load(ctx)
		require.NoError(t, err, "missing ledger must load as empty")
		assert.Equal(t, 0, ledger.Len())
	})

	t.Run("Append Returns New Ledger", func(t *testing.T) {
		ledger, err := store.Append(ctx, first)
		require.NoError(t, err)
		require.Equal(t, 1, ledger.Len())
		assertEntry(t, first, ledger.Entries()[0])
	})

	t.Run("Append Keeps Prior Entries", func(t *testing.T) {
		before, err := store.Load(ctx)
		require.NoError(t, err)

		after, err := store.Append(ctx, second)
		require.NoError(t, err)
		require.Equal(t, before.Len()+1, after.Len())

		for i, e := range before.Entries() {
			assertEntry(t, e, after.Entries()[i])
		}
		last, _ := after.Last()
		assertEntry(t, second, last)
	})

	t.Run("Unknown Ids Are Stored", func(t *testing.T) {
		_, err := store.Append(ctx, stale)
		require.NoError(t, err)

		reloaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, reloaded.Len())
		assert.Equal(t, []string{"java-1-ac1", "java-1-ac2", "renamed-topic"}, topicIDs(reloaded))
	})
}

// LessonStoreContractTest verifies lookups against a store seeded with lessons.
func LessonStoreContractTest(t *testing.T, store ports.LessonStore, seeded map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Lesson_Success", func(t *testing.T) {
		for id, want := range seeded {
			got, err := store.Lesson(ctx, id)
			require.NoError(t, err, "lesson %s", id)
			assert.Contains(t, got, want)
		}
	})

	t.Run("Lesson_NotFound", func(t *testing.T) {
		_, err := store.Lesson(ctx, "non-existent-lesson")
		assert.ErrorIs(t, err, domain.ErrLessonNotFound)
	})

	t.Run("ListLessons", func(t *testing.T) {
		ids, err := store.ListLessons(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, len(seeded))
		for id := range seeded {
			assert.Contains(t, ids, id)
		}
	})
}

func assertEntry(t *testing.T, want, got domain.LedgerEntry) {
	t.Helper()
	assert.Equal(t, want.TopicID, got.TopicID)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.True(t, want.CompletedAt.Equal(got.CompletedAt), "completed_at: want %s, got %s", want.CompletedAt, got.CompletedAt)
}

func topicIDs(l domain.Ledger) []string {
	ids := make([]string, 0, l.Len())
	for _, e := range l.Entries() {
		ids = append(ids, e.TopicID)
	}
	return ids
}
