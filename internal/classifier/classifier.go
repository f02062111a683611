// Package classifier maps topic categories to workspace strategies.
//
// The mapping is a closed, static table. A category that matches no row is an error:
// guessing a strategy would scaffold into the wrong project.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Project directories of the two consolidated tracks.
const (
	PrimaryProject   = "java-automation"
	SecondaryProject = "playwright-automation"
)

// ConceptualPrefix introduces the open family of standalone exercise categories.
const ConceptualPrefix = "conceptual-"

var primaryCategories = []string{
	"java", "junit", "testng", "maven", "selenium", "page-object",
	"rest-assured", "api-automation", "cucumber", "bdd", "allure",
}

var secondaryCategories = []string{
	"typescript", "playwright", "playwright-api", "visual-testing", "component-testing",
}

var conceptualFolders = map[string]string{
	"test-fundamentals": "test-fundamentals",
	"test-design":       "test-design-techniques",
	"test-management":   "test-plans",
	"bug-reporting":     "bug-reports",
	"agile":             "agile-testing",
	"exploratory":       "exploratory-sessions",
	"sql":               "sql-practice",
	"git":               "git-practice",
	"http":              "http-fundamentals",
	"performance":       "performance-testing",
	"security":          "security-testing",
	"accessibility":     "accessibility-audits",
}

// DefaultRules returns the built-in category table.
func DefaultRules() []domain.StrategyRule {
	rules := make([]domain.StrategyRule, 0, len(primaryCategories)+len(secondaryCategories)+len(conceptualFolders)+1)
	for _, c := range primaryCategories {
		rules = append(rules, domain.StrategyRule{
			Category: c, Kind: domain.StrategyConsolidatedProject, Name: PrimaryProject, Project: domain.ProjectPrimary,
		})
	}
	for _, c := range secondaryCategories {
		rules = append(rules, domain.StrategyRule{
			Category: c, Kind: domain.StrategyConsolidatedProject, Name: SecondaryProject, Project: domain.ProjectSecondary,
		})
	}

	folders := make([]string, 0, len(conceptualFolders))
	for c := range conceptualFolders {
		folders = append(folders, c)
	}
	sort.Strings(folders)
	for _, c := range folders {
		rules = append(rules, domain.StrategyRule{
			Category: c, Kind: domain.StrategyConceptualFolder, Name: conceptualFolders[c],
		})
	}

	return append(rules, domain.StrategyRule{Prefix: ConceptualPrefix, Kind: domain.StrategyConceptualFolder})
}

// Classifier is an immutable category table.
type Classifier struct {
	exact    map[string]domain.StrategyRule
	prefixes []domain.StrategyRule // longest prefix first
}

// New builds a classifier from rules. Later rules override earlier ones
// with the same category or prefix.
func New(rules ...domain.StrategyRule) (*Classifier, error) {
	c := &Classifier{exact: make(map[string]domain.StrategyRule)}
	byPrefix := make(map[string]domain.StrategyRule)

	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("strategy rule %d: %w", i, err)
		}
		if r.Category != "" {
			c.exact[r.Category] = r
		} else {
			byPrefix[r.Prefix] = r
		}
	}

	for _, r := range byPrefix {
		c.prefixes = append(c.prefixes, r)
	}
	sort.Slice(c.prefixes, func(i, j int) bool {
		if len(c.prefixes[i].Prefix) != len(c.prefixes[j].Prefix) {
			return len(c.prefixes[i].Prefix) > len(c.prefixes[j].Prefix)
		}
		return c.prefixes[i].Prefix < c.prefixes[j].Prefix
	})
	return c, nil
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	c, err := New(DefaultRules()...)
	if err != nil {
		panic(err) // built-in table is static
	}
	return c
}

// Extend returns a new classifier with extra rules layered over the default table.
func Extend(rules ...domain.StrategyRule) (*Classifier, error) {
	return New(append(DefaultRules(), rules...)...)
}

// Classify maps the topic's category to its strategy.
// It returns an error wrapping domain.ErrUnclassifiedCategory when no row matches.
func (c *Classifier) Classify(topic domain.Topic) (domain.Strategy, error) {
	category := strings.TrimSpace(topic.Category)

	if r, ok := c.exact[category]; ok {
		return strategyFor(r, ""), nil
	}

	for _, r := range c.prefixes {
		if !strings.HasPrefix(category, r.Prefix) {
			continue
		}
		rest := strings.TrimPrefix(category, r.Prefix)
		if r.Name == "" && (rest == "" || !validName(rest)) {
			continue
		}
		return strategyFor(r, rest), nil
	}

	return domain.Strategy{}, fmt.Errorf("%w: '%s' (topic %s)", domain.ErrUnclassifiedCategory, topic.Category, topic.ID)
}

// Categories returns the exact categories known to the table, sorted.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.exact))
	for k := range c.exact {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func strategyFor(r domain.StrategyRule, rest string) domain.Strategy {
	name := r.Name
	if name == "" {
		name = rest
	}
	if r.Kind == domain.StrategyConsolidatedProject {
		return domain.ConsolidatedProject(name, r.Project)
	}
	return domain.ConceptualFolder(name)
}

func validateRule(r domain.StrategyRule) error {
	if (r.Category == "") == (r.Prefix == "") {
		return fmt.Errorf("exactly one of category or prefix must be set")
	}
	if r.Name != "" && !validName(r.Name) {
		return fmt.Errorf("name '%s' must be a single directory name", r.Name)
	}
	switch r.Kind {
	case domain.StrategyConsolidatedProject:
		if !r.Project.Valid() {
			return fmt.Errorf("consolidated project requires a project kind, got '%s'", r.Project)
		}
		if r.Name == "" {
			return fmt.Errorf("consolidated project requires a name")
		}
	case domain.StrategyConceptualFolder:
		if r.Category != "" && r.Name == "" {
			return fmt.Errorf("conceptual folder for category '%s' requires a name", r.Category)
		}
	default:
		return fmt.Errorf("unknown strategy '%s'", r.Kind)
	}
	return nil
}

func validName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
