// Package catalog loads the curriculum from a YAML or JSON file.
//
// Documents are checked against an embedded JSON Schema before decoding, so a typo in
// a field name fails loudly instead of silently producing an empty value.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/syllabus/pkg/domain"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://syllabus/catalog.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Document is the on-disk catalog layout.
type Document struct {
	Version    any                   `json:"version,omitempty" yaml:"version,omitempty"`
	Topics     []domain.Topic        `json:"topics" yaml:"topics"`
	Strategies []domain.StrategyRule `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

// Schema returns the JSON Schema catalog documents are validated against.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// File implements ports.CatalogSource over a file. The file is re-read on every Load.
type File struct {
	Path string
}

// NewFile creates a catalog source for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads, validates and decodes the catalog file.
func (f *File) Load(ctx context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrInvalidCatalog, f.Path)
		}
		return nil, domain.NewIOError("read", f.Path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return c, nil
}

// Parse validates and decodes a YAML or JSON catalog document.
func Parse(data []byte) (*domain.Catalog, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewCatalog(doc.Topics)
	if err != nil {
		return nil, err
	}
	if len(doc.Strategies) > 0 {
		c = c.WithRules(doc.Strategies)
	}
	return c, nil
}

// Decode validates data against the schema and decodes it without building a Catalog.
func Decode(data []byte) (*Document, error) {
	// JSON is a subset of YAML, so one decoder serves both formats.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidCatalog)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return &doc, nil
}

func validate(raw any) error {
	schema, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// The validator expects JSON-shaped values; round-trip the YAML tree.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("catalog is not representable as JSON: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if compileErr = json.Unmarshal(schemaJSON, &def); compileErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if compileErr = c.AddResource(schemaURL, def); compileErr != nil {
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
