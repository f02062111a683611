package classifier_test

import (
	"testing"

	"github.com/aretw0/syllabus/internal/classifier"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultTable(t *testing.T) {
	c := classifier.Default()

	tests := []struct {
		category string
		want     domain.Strategy
	}{
		{"selenium", domain.ConsolidatedProject(classifier.PrimaryProject, domain.ProjectPrimary)},
		{"rest-assured", domain.ConsolidatedProject(classifier.PrimaryProject, domain.ProjectPrimary)},
		{"playwright", domain.ConsolidatedProject(classifier.SecondaryProject, domain.ProjectSecondary)},
		{"bug-reporting", domain.ConceptualFolder("bug-reports")},
		{"conceptual-test-pyramid", domain.ConceptualFolder("test-pyramid")},
		{" junit ", domain.ConsolidatedProject(classifier.PrimaryProject, domain.ProjectPrimary)},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, err := c.Classify(domain.Topic{ID: "x", Category: tt.category})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	c := classifier.Default()

	for _, category := range []string{"", "cobol", "conceptual-", "conceptual-a/b", "SELENIUM"} {
		_, err := c.Classify(domain.Topic{ID: "t", Category: category})
		assert.ErrorIs(t, err, domain.ErrUnclassifiedCategory, "category %q", category)
	}
}

func TestExtend_OverridesAndAdds(t *testing.T) {
	c, err := classifier.Extend(
		domain.StrategyRule{Category: "k6", Kind: domain.StrategyConceptualFolder, Name: "load-tests"},
		domain.StrategyRule{Category: "sql", Kind: domain.StrategyConsolidatedProject, Name: "db-suite", Project: domain.ProjectPrimary},
		domain.StrategyRule{Prefix: "conceptual-api-", Kind: domain.StrategyConceptualFolder, Name: "api-concepts"},
	)
	require.NoError(t, err)

	got, err := c.Classify(domain.Topic{Category: "k6"})
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptualFolder("load-tests"), got)

	got, err = c.Classify(domain.Topic{Category: "sql"})
	require.NoError(t, err)
	assert.Equal(t, domain.ConsolidatedProject("db-suite", domain.ProjectPrimary), got)

	got, err = c.Classify(domain.Topic{Category: "conceptual-api-rest"})
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptualFolder("api-concepts"), got, "longest prefix wins")

	assert.Contains(t, c.Categories(), "k6")
}

func TestNew_RejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule domain.StrategyRule
	}{
		{"no selector", domain.StrategyRule{Kind: domain.StrategyConceptualFolder, Name: "x"}},
		{"both selectors", domain.StrategyRule{Category: "a", Prefix: "b", Kind: domain.StrategyConceptualFolder, Name: "x"}},
		{"unknown kind", domain.StrategyRule{Category: "a", Kind: "monorepo", Name: "x"}},
		{"project without kind", domain.StrategyRule{Category: "a", Kind: domain.StrategyConsolidatedProject, Name: "x"}},
		{"project without name", domain.StrategyRule{Category: "a", Kind: domain.StrategyConsolidatedProject, Project: domain.ProjectPrimary}},
		{"folder without name", domain.StrategyRule{Category: "a", Kind: domain.StrategyConceptualFolder}},
		{"nested name", domain.StrategyRule{Category: "a", Kind: domain.StrategyConceptualFolder, Name: "a/b"}},
		{"dot name", domain.StrategyRule{Category: "a", Kind: domain.StrategyConceptualFolder, Name: ".."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifier.New(tt.rule)
			assert.Error(t, err)
		})
	}
}
