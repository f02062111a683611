package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/pkg/adapters/memory"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
	"github.com/aretw0/syllabus/pkg/ports/tests"
)

var _ ports.LedgerStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunLedgerStoreContract(t, memory.NewStore())
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Append(ctx, domain.LedgerEntry{TopicID: "t", CompletedAt: time.Now()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ledger, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, ledger.Len())
}

func TestMemoryStore_Seeded(t *testing.T) {
	store := memory.NewStore(domain.LedgerEntry{TopicID: "java-1-ac1"})

	ledger, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ledger.Contains("java-1-ac1"))
}
