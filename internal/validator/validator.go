// Package validator checks a curriculum before any learner runs into it.
package validator

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/aretw0/syllabus/internal/workspace"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
)

// Classifier maps a topic to its workspace strategy.
type Classifier interface {
	Classify(topic domain.Topic) (domain.Strategy, error)
}

// Report collects everything found in one pass.
// Errors stop a session when the learner reaches the topic; warnings only degrade it.
type Report struct {
	Topics   int      `json:"topics"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Err returns nil when the report has no errors.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateCatalog classifies every topic and dry-runs its workspace plan against an
// empty workspace. With a lesson store it also reports topics without a lesson and
// lessons no topic points to.
func ValidateCatalog(ctx context.Context, catalog *domain.Catalog, cl Classifier, lessons ports.LessonStore) Report {
	r := Report{Topics: catalog.Len()}

	for _, topic := range catalog.Topics() {
		strategy, err := cl.Classify(topic)
		if err != nil {
			r.Errors = append(r.Errors, err.Error())
			continue
		}
		if _, err := workspace.BuildPlan(emptyFS{}, strategy, topic); err != nil {
			r.Errors = append(r.Errors, err.Error())
		}
	}

	if lessons == nil {
		return r
	}
	ids, err := lessons.ListLessons(ctx)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("list lessons: %v", err))
		return r
	}
	have := make(map[string]bool, len(ids))
	for _, id := range ids {
		have[id] = true
	}
	for _, topic := range catalog.Topics() {
		if !have[topic.ID] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("topic %s has no lesson", topic.ID))
		}
	}
	var orphans []string
	for _, id := range ids {
		if _, ok := catalog.Lookup(id); !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		r.Warnings = append(r.Warnings, fmt.Sprintf("lesson %s matches no topic", id))
	}
	return r
}

// emptyFS is a workspace with nothing in it.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
