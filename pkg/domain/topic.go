package domain

import (
	"fmt"
	"strings"
)

// ArtifactMode defines how a workspace artifact is materialized.
type ArtifactMode string

const (
	// ArtifactCreate writes the whole file only if it does not exist yet.
	ArtifactCreate ArtifactMode = "create"
	// ArtifactAppend ensures the content block is present in the file, appending it if missing.
	ArtifactAppend ArtifactMode = "append"
)

// Artifact is a file a Topic needs inside its consolidated project.
// Path is relative to the project directory.
type Artifact struct {
	Path    string       `json:"path" yaml:"path" mapstructure:"path"`
	Content string       `json:"content,omitempty" yaml:"content,omitempty" mapstructure:"content"`
	Mode    ArtifactMode `json:"mode,omitempty" yaml:"mode,omitempty" mapstructure:"mode"`
}

// EffectiveMode returns the artifact mode, defaulting to ArtifactCreate.
func (a Artifact) EffectiveMode() ArtifactMode {
	if a.Mode == "" {
		return ArtifactCreate
	}
	return a.Mode
}

// Topic is an immutable curriculum unit.
type Topic struct {
	ID          string     `json:"id" yaml:"id"`
	Category    string     `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Steps       []string   `json:"steps" yaml:"steps"`
	Sprint      string     `json:"sprint,omitempty" yaml:"sprint,omitempty"`
	Artifacts   []Artifact `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// Catalog is the ordered, read-only sequence of all Topics.
// The zero value is an empty catalog.
type Catalog struct {
	topics []Topic
	index  map[string]int
	rules  []StrategyRule
}

// NewCatalog builds a Catalog preserving the given order.
// It rejects empty and duplicate ids.
func NewCatalog(topics []Topic) (*Catalog, error) {
	c := &Catalog{
		topics: make([]Topic, 0, len(topics)),
		index:  make(map[string]int, len(topics)),
	}
	for i, t := range topics {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: topic at position %d has no id", ErrInvalidCatalog, i)
		}
		if prev, ok := c.index[id]; ok {
			return nil, fmt.Errorf("%w: duplicate topic id '%s' (positions %d and %d)", ErrInvalidCatalog, id, prev, i)
		}
		t.ID = id
		t.Steps = append([]string(nil), t.Steps...)
		t.Artifacts = append([]Artifact(nil), t.Artifacts...)
		c.index[id] = len(c.topics)
		c.topics = append(c.topics, t)
	}
	return c, nil
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.topics)
}

// Topics returns a copy of the topics in catalog order.
func (c *Catalog) Topics() []Topic {
	if c == nil {
		return nil
	}
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// At returns the topic at position i.
func (c *Catalog) At(i int) Topic {
	return c.topics[i]
}

// Lookup finds a topic by id.
func (c *Catalog) Lookup(id string) (Topic, bool) {
	if c == nil {
		return Topic{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Contains reports whether the catalog has a topic with the given id.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Position returns the catalog position of id, or -1.
func (c *Catalog) Position(id string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// WithRules returns a copy of the catalog carrying extra category rules declared by its source.
func (c *Catalog) WithRules(rules []StrategyRule) *Catalog {
	out := &Catalog{}
	if c != nil {
		*out = *c
	}
	out.rules = append([]StrategyRule(nil), rules...)
	return out
}

// Rules returns the category rules declared alongside the topics.
func (c *Catalog) Rules() []StrategyRule {
	if c == nil {
		return nil
	}
	return append([]StrategyRule(nil), c.rules...)
}
