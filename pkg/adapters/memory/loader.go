package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Catalog implements ports.CatalogSource over a fixed topic list.
type Catalog struct {
	catalog *domain.Catalog
}

// NewCatalog validates topics and wraps them as a catalog source.
func NewCatalog(topics []domain.Topic, rules ...domain.StrategyRule) (*Catalog, error) {
	c, err := domain.NewCatalog(topics)
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		c = c.WithRules(rules)
	}
	return &Catalog{catalog: c}, nil
}

// Load returns the catalog.
func (c *Catalog) Load(ctx context.Context) (*domain.Catalog, error) {
	return c.catalog, nil
}

// Lessons implements ports.LessonStore using an in-memory map keyed by topic id.
type Lessons struct {
	lessons map[string]string
}

// NewLessons creates a lesson store with the provided markdown content.
func NewLessons(data map[string]string) *Lessons {
	lessons := make(map[string]string, len(data))
	for k, v := range data {
		lessons[k] = v
	}
	return &Lessons{lessons: lessons}
}

// Lesson retrieves the content for topicID.
func (l *Lessons) Lesson(ctx context.Context, topicID string) (string, error) {
	content, ok := l.lessons[topicID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrLessonNotFound, topicID)
	}
	return content, nil
}

// ListLessons returns all topic ids with a lesson.
func (l *Lessons) ListLessons(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.lessons))
	for k := range l.lessons {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
