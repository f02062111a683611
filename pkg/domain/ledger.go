package domain

import "time"

// LedgerEntry records the completion of one Topic.
type LedgerEntry struct {
	TopicID     string    `json:"topic_id"`
	Description string    `json:"description"`
	CompletedAt time.Time `json:"completed_at"`
	SessionID   string    `json:"session_id,omitempty"`
}

// NewLedgerEntry snapshots a topic into an entry completed at the given time.
func NewLedgerEntry(topic Topic, sessionID string, at time.Time) LedgerEntry {
	return LedgerEntry{
		TopicID:     topic.ID,
		Description: topic.Description,
		CompletedAt: at.UTC(),
		SessionID:   sessionID,
	}
}

// Ledger is an append-only, ordered sequence of entries.
// Values are immutable: Append returns a new Ledger and leaves the receiver untouched.
type Ledger struct {
	entries []LedgerEntry
}

// NewLedger creates a ledger holding a copy of the given entries.
func NewLedger(entries ...LedgerEntry) Ledger {
	return Ledger{entries: append([]LedgerEntry(nil), entries...)}
}

// Append returns a new ledger with e as its last entry.
func (l Ledger) Append(e LedgerEntry) Ledger {
	next := make([]LedgerEntry, len(l.entries), len(l.entries)+1)
	copy(next, l.entries)
	return Ledger{entries: append(next, e)}
}

// Entries returns a copy of the entries in append order.
func (l Ledger) Entries() []LedgerEntry {
	return append([]LedgerEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l Ledger) Len() int {
	return len(l.entries)
}

// CompletedIDs returns the set of topic ids present in the ledger.
func (l Ledger) CompletedIDs() map[string]struct{} {
	set := make(map[string]struct{}, len(l.entries))
	for _, e := range l.entries {
		set[e.TopicID] = struct{}{}
	}
	return set
}

// Contains reports whether the topic id has been completed.
func (l Ledger) Contains(topicID string) bool {
	for _, e := range l.entries {
		if e.TopicID == topicID {
			return true
		}
	}
	return false
}

// Last returns the most recent entry.
func (l Ledger) Last() (LedgerEntry, bool) {
	if len(l.entries) == 0 {
		return LedgerEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
