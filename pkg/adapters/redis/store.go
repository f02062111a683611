package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/syllabus/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces ledger keys.
const DefaultPrefix = "syllabus:ledger:"

// Store implements ports.LedgerStore using a Redis list per learner.
// RPUSH is atomic, so concurrent appends never interleave partial entries.
type Store struct {
	client  *backend.Client
	prefix  string
	learner string
}

type Option func(*Store)

// WithPrefix sets the key prefix for ledgers.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis ledger store for learner.
func New(address, password string, db int, learner string, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, learner, opts...)
}

// NewFromClient creates a new Redis ledger store from an existing client.
func NewFromClient(client *backend.Client, learner string, opts ...Option) *Store {
	if learner == "" {
		learner = "default"
	}
	store := &Store{
		client:  client,
		prefix:  DefaultPrefix,
		learner: learner,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client returns the underlying Redis client, to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Key returns the list key holding this learner's ledger.
func (s *Store) Key() string {
	return s.prefix + s.learner
}

// Load reads the whole list in order.
func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	items, err := s.client.LRange(ctx, s.Key(), 0, -1).Result()
	if err != nil {
		return domain.Ledger{}, domain.NewIOError("lrange", s.Key(), err)
	}

	entries := make([]domain.LedgerEntry, 0, len(items))
	for i, item := range items {
		var e domain.LedgerEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return domain.Ledger{}, fmt.Errorf("ledger %s item %d: %w", s.Key(), i, err)
		}
		entries = append(entries, e)
	}
	return domain.NewLedger(entries...), nil
}

// Append pushes entry to the tail of the list and returns the resulting ledger.
// Every read happens before the push: once RPUSH succeeds the entry is
// recorded and Append reports success.
func (s *Store) Append(ctx context.Context, entry domain.LedgerEntry) (domain.Ledger, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	current, err := s.Load(ctx)
	if err != nil {
		return domain.Ledger{}, err
	}
	if err := s.client.RPush(ctx, s.Key(), data).Err(); err != nil {
		return domain.Ledger{}, domain.NewIOError("rpush", s.Key(), err)
	}
	return current.Append(entry), nil
}
