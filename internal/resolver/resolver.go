// Package resolver decides which topic a learner works on next.
//
// Resolution is a linear scan of the catalog: the catalog order already encodes the
// intended sequence, so no dependency graph is involved. Ledger entries are only ever
// used as a set of completed ids; their order and any unknown ids are irrelevant.
package resolver

import (
	"github.com/aretw0/syllabus/pkg/domain"
)

// Resolution is the outcome of Resolve: either a Topic or curriculum completion.
type Resolution struct {
	Topic    domain.Topic
	Position int
	Complete bool
}

// Resolve returns the first catalog topic whose id is not in the ledger.
// It never fails; an empty catalog is complete.
func Resolve(catalog *domain.Catalog, ledger domain.Ledger) Resolution {
	completed := ledger.CompletedIDs()
	for i := 0; i < catalog.Len(); i++ {
		topic := catalog.At(i)
		if _, done := completed[topic.ID]; !done {
			return Resolution{Topic: topic, Position: i}
		}
	}
	return Resolution{Position: catalog.Len(), Complete: true}
}

// StaleReferences returns ledger topic ids that are absent from the catalog,
// deduplicated and in ledger order.
func StaleReferences(catalog *domain.Catalog, ledger domain.Ledger) []string {
	var stale []string
	seen := make(map[string]bool)
	for _, e := range ledger.Entries() {
		if catalog.Contains(e.TopicID) || seen[e.TopicID] {
			continue
		}
		seen[e.TopicID] = true
		stale = append(stale, e.TopicID)
	}
	return stale
}

// Progress summarizes completion counting only catalog topics.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Remaining returns the number of topics still to do.
func (p Progress) Remaining() int {
	return p.Total - p.Completed
}

// Percent returns completion in the 0-100 range.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Completed) * 100 / float64(p.Total)
}

// ComputeProgress counts catalog topics present in the ledger.
func ComputeProgress(catalog *domain.Catalog, ledger domain.Ledger) Progress {
	completed := ledger.CompletedIDs()
	p := Progress{Total: catalog.Len()}
	for i := 0; i < catalog.Len(); i++ {
		if _, ok := completed[catalog.At(i).ID]; ok {
			p.Completed++
		}
	}
	return p
}
