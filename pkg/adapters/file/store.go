// Package file stores the progress ledger as a JSON Lines file.
//
// Every entry is one line, so the ledger stays readable and diffable by hand.
// Appends rewrite the whole file through a temporary file and a rename, so a crash
// leaves either the old or the new ledger on disk, never a torn line.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/syllabus/pkg/domain"
)

// DefaultPath is the ledger location relative to the project directory.
var DefaultPath = filepath.Join(".syllabus", "progress.jsonl")

// Store implements ports.LedgerStore using the local filesystem.
type Store struct {
	Path string

	mu sync.Mutex
}

// New creates a new Store for the given ledger file.
// If path is empty, it defaults to ".syllabus/progress.jsonl".
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Load reads the ledger. A missing file is an empty ledger; a malformed line is an error.
func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	data, err := s.read()
	if err != nil {
		return domain.Ledger{}, err
	}
	return s.parse(data)
}

// Append adds entry as the last line of the ledger atomically.
// Existing bytes are copied verbatim.
func (s *Store) Append(ctx context.Context, entry domain.LedgerEntry) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ledger{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return domain.Ledger{}, err
	}
	// Refuse to extend a ledger we cannot read back.
	ledger, err := s.parse(data)
	if err != nil {
		return domain.Ledger{}, err
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(line) + 2)
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.Write(line)
	buf.WriteByte('\n')

	if err := s.writeAtomic(buf.Bytes()); err != nil {
		return domain.Ledger{}, err
	}
	return ledger.Append(entry), nil
}

func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewIOError("read", s.Path, err)
	}
	return data, nil
}

func (s *Store) parse(data []byte) (domain.Ledger, error) {
	var entries []domain.LedgerEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e domain.LedgerEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return domain.Ledger{}, fmt.Errorf("ledger %s line %d: %w", s.Path, n, err)
		}
		if e.TopicID == "" {
			return domain.Ledger{}, fmt.Errorf("ledger %s line %d: missing topic_id", s.Path, n)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return domain.Ledger{}, fmt.Errorf("ledger %s: %w", s.Path, err)
	}
	return domain.NewLedger(entries...), nil
}

// writeAtomic writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.NewIOError("mkdir", dir, err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return domain.NewIOError("create", dir, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return domain.NewIOError("write", tmpPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return domain.NewIOError("fsync", tmpPath, err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return domain.NewIOError("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return domain.NewIOError("rename", s.Path, err)
	}
	return nil
}
