package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/pkg/adapters/file"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
	"github.com/aretw0/syllabus/pkg/ports/tests"
)

var _ ports.LedgerStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), ".syllabus", "progress.jsonl"))
	tests.RunLedgerStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".syllabus", "progress.jsonl"), file.New("").Path)
}

func TestFileStore_OneLinePerEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	store := file.New(path)
	ctx := context.Background()
	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	_, err := store.Append(ctx, domain.LedgerEntry{TopicID: "java-1-ac1", Description: "Setup", CompletedAt: at})
	require.NoError(t, err)
	_, err = store.Append(ctx, domain.LedgerEntry{TopicID: "java-1-ac2", Description: "First test", CompletedAt: at, SessionID: "abc"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`{"topic_id":"java-1-ac1","description":"Setup","completed_at":"2026-05-06T07:08:09Z"}`+"\n"+
			`{"topic_id":"java-1-ac2","description":"First test","completed_at":"2026-05-06T07:08:09Z","session_id":"abc"}`+"\n",
		string(data))
}

func TestFileStore_PreservesExistingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	handEdited := `{ "topic_id": "java-1-ac1", "description": "edited by hand", "completed_at": "2026-01-01T00:00:00Z" }` + "\n\n" +
		`{"topic_id":"sql-1-ac1","description":"no newline","completed_at":"2026-01-02T00:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(handEdited), 0644))

	store := file.New(path)
	ledger, err := store.Append(context.Background(), domain.LedgerEntry{TopicID: "http-1-ac1", CompletedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 3, ledger.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), handEdited+"\n"), "existing content must be kept verbatim")

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Len())
}

func TestFileStore_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	content := `{"topic_id":"java-1-ac1","completed_at":"2026-01-01T00:00:00Z"}` + "\nnot json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store := file.New(path)
	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "line 2")

	_, err = store.Append(context.Background(), domain.LedgerEntry{TopicID: "x"})
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, content, string(data), "a broken ledger is never rewritten")
}

func TestFileStore_MissingTopicID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"description":"orphan"}`+"\n"), 0644))

	_, err := file.New(path).Load(context.Background())
	assert.ErrorContains(t, err, "missing topic_id")
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "progress.jsonl"))

	for i := 0; i < 3; i++ {
		_, err := store.Append(context.Background(), domain.LedgerEntry{TopicID: "t", CompletedAt: time.Now()})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.jsonl", entries[0].Name())
}

func TestFileStore_ReadError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the ledger file should be.
	path := filepath.Join(dir, "progress.jsonl")
	require.NoError(t, os.Mkdir(path, 0755))

	_, err := file.New(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsIOError(err))
}
