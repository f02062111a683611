// Package loam serves lesson markdown from a Loam repository.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/syllabus/pkg/domain"
)

// Lessons adapts a Loam repository to the ports.LessonStore interface.
// Documents are matched to topics by frontmatter id, falling back to the file name.
type Lessons struct {
	Repo *loam.TypedRepository[LessonMetadata]
}

// New creates a new Loam lesson adapter.
func New(repo *loam.TypedRepository[LessonMetadata]) *Lessons {
	return &Lessons{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Lessons, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps frontmatter numbers consistent; read-only avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[LessonMetadata](repo)), nil
}

// Lesson returns the markdown body of the lesson for topicID.
func (l *Lessons) Lesson(ctx context.Context, topicID string) (string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return "", err
	}
	docID, ok := index[topicID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrLessonNotFound, topicID)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return "", fmt.Errorf("loam get failed for %s: %w", docID, err)
	}
	content := strings.TrimSpace(doc.Content)
	if doc.Data.Title != "" && !strings.HasPrefix(content, "#") {
		content = "# " + doc.Data.Title + "\n\n" + content
	}
	return content, nil
}

// ListLessons returns the topic ids that have a lesson, sorted.
func (l *Lessons) ListLessons(ctx context.Context) ([]string, error) {
	index, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps topic ids to document ids.
func (l *Lessons) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	index := make(map[string]string, len(docs))
	for _, doc := range docs {
		docID := trimExtension(doc.ID)
		id := doc.Data.ID
		if id == "" {
			id = filepath.Base(docID)
		}
		if existing, ok := index[id]; ok {
			return nil, fmt.Errorf("collision detected: lesson '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		index[id] = docID
	}
	return index, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
