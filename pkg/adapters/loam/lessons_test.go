package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/syllabus/internal/testutils"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/ports"
	"github.com/aretw0/syllabus/pkg/ports/tests"
)

var _ ports.LessonStore = (*Lessons)(nil)

func TestLessons_Contract(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"java-1-ac1.md": "---\nid: java-1-ac1\n---\nInstall a JDK and check `java -version`.",
		"sql-1-ac1.md":  "Write a SELECT with a WHERE clause.",
	})

	lessons := New(loam.NewTypedRepository[LessonMetadata](repo))

	tests.LessonStoreContractTest(t, lessons, map[string]string{
		"java-1-ac1": "Install a JDK",
		"sql-1-ac1":  "SELECT with a WHERE",
	})
}

func TestLessons_FrontmatterIDWins(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"sprint-1/page-objects.md": "---\nid: selenium-1-ac2\ntitle: Page Objects\n---\nWrap each page in a class.",
	})
	lessons := New(loam.NewTypedRepository[LessonMetadata](repo))
	ctx := context.Background()

	content, err := lessons.Lesson(ctx, "selenium-1-ac2")
	require.NoError(t, err)
	assert.Equal(t, "# Page Objects\n\nWrap each page in a class.", content)

	_, err = lessons.Lesson(ctx, "page-objects")
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestLessons_Collision(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"a.md": "---\nid: git-1-ac1\n---\nA",
		"b.md": "---\nid: git-1-ac1\n---\nB",
	})
	lessons := New(loam.NewTypedRepository[LessonMetadata](repo))

	_, err := lessons.ListLessons(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "a/b", trimExtension("a/b.md"))
	assert.Equal(t, "a", trimExtension("a"))
}
