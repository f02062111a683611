package domain

import "fmt"

// StrategyKind is the closed set of workspace strategy variants.
type StrategyKind string

const (
	StrategyConsolidatedProject StrategyKind = "consolidated-project"
	StrategyConceptualFolder    StrategyKind = "conceptual-folder"
)

// ProjectKind selects the scaffold used by a consolidated project.
type ProjectKind string

const (
	ProjectPrimary   ProjectKind = "primary-language-project"
	ProjectSecondary ProjectKind = "secondary-language-project"
)

// Valid reports whether k is a known project kind.
func (k ProjectKind) Valid() bool {
	return k == ProjectPrimary || k == ProjectSecondary
}

// Strategy describes the workspace shape a Topic maps to.
// It is recomputed from the category on every session and never persisted.
type Strategy struct {
	Kind    StrategyKind `json:"kind"`
	Name    string       `json:"name"`
	Project ProjectKind  `json:"project,omitempty"`
}

// ConsolidatedProject builds a strategy for a shared, growing project.
func ConsolidatedProject(name string, kind ProjectKind) Strategy {
	return Strategy{Kind: StrategyConsolidatedProject, Name: name, Project: kind}
}

// ConceptualFolder builds a strategy for a standalone exercise folder.
func ConceptualFolder(name string) Strategy {
	return Strategy{Kind: StrategyConceptualFolder, Name: name}
}

// IsProject reports whether s is a consolidated project.
func (s Strategy) IsProject() bool {
	return s.Kind == StrategyConsolidatedProject
}

func (s Strategy) String() string {
	if s.IsProject() {
		return fmt.Sprintf("%s(%s, %s)", s.Kind, s.Name, s.Project)
	}
	return fmt.Sprintf("%s(%s)", s.Kind, s.Name)
}

// StrategyRule maps a category, or a family of categories sharing a prefix, to a strategy.
// Exactly one of Category and Prefix is set. For prefix rules without a Name the folder
// or project name is the category with the prefix removed.
type StrategyRule struct {
	Category string       `json:"category,omitempty" yaml:"category,omitempty"`
	Prefix   string       `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Kind     StrategyKind `json:"strategy" yaml:"strategy"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Project  ProjectKind  `json:"project,omitempty" yaml:"project,omitempty"`
}
