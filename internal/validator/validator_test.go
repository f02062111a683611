package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/internal/classifier"
	"github.com/aretw0/syllabus/internal/validator"
	"github.com/aretw0/syllabus/pkg/adapters/memory"
	"github.com/aretw0/syllabus/pkg/domain"
)

func TestValidateCatalog(t *testing.T) {
	catalog, err := domain.NewCatalog([]domain.Topic{
		{ID: "java-1-ac1", Category: "java"},
		{ID: "legacy-1", Category: "cobol"},
		{ID: "selenium-1-ac1", Category: "selenium", Artifacts: []domain.Artifact{{Path: "../escape.txt"}}},
		{ID: "conceptual-1-ac1", Category: "conceptual-bug-hunt"},
	})
	require.NoError(t, err)

	t.Run("Without Lessons", func(t *testing.T) {
		r := validator.ValidateCatalog(context.Background(), catalog, classifier.Default(), nil)

		assert.Equal(t, 4, r.Topics)
		require.Len(t, r.Errors, 2)
		assert.Contains(t, r.Errors[0], "cobol")
		assert.Contains(t, r.Errors[1], "escape.txt")
		assert.Empty(t, r.Warnings)
		assert.ErrorContains(t, r.Err(), "found 2 errors")
	})

	t.Run("With Lessons", func(t *testing.T) {
		lessons := memory.NewLessons(map[string]string{
			"java-1-ac1": "# Java",
			"removed-1":  "# Gone",
		})
		r := validator.ValidateCatalog(context.Background(), catalog, classifier.Default(), lessons)

		assert.Contains(t, r.Warnings, "topic legacy-1 has no lesson")
		assert.Contains(t, r.Warnings, "topic conceptual-1-ac1 has no lesson")
		assert.Contains(t, r.Warnings, "lesson removed-1 matches no topic")
		assert.NotContains(t, r.Warnings, "topic java-1-ac1 has no lesson")
	})
}

func TestValidateCatalog_Clean(t *testing.T) {
	catalog, err := domain.NewCatalog([]domain.Topic{{ID: "sql-1-ac1", Category: "sql"}})
	require.NoError(t, err)

	r := validator.ValidateCatalog(context.Background(), catalog, classifier.Default(), nil)
	assert.NoError(t, r.Err())
}
