package ports

import "context"

// LessonStore retrieves lesson content keyed by topic id.
// The content is opaque markdown; the engine never interprets it.
type LessonStore interface {
	// Lesson returns the lesson for topicID.
	// Returns domain.ErrLessonNotFound if there is none.
	Lesson(ctx context.Context, topicID string) (string, error)

	// ListLessons returns the ids of every stored lesson.
	ListLessons(ctx context.Context) ([]string, error)
}
