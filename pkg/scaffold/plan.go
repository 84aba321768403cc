// Package scaffold executes declarative migration plans against a project
// tree and validates the resulting scaffold state. A plan describes, per
// target file, the lines to strip, the blocks to insert, and the list-block
// entries to maintain, plus directory merges, file creations, and path
// removals. The engine owns only the mechanics; all content strings are
// plan inputs.
package scaffold

import (
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/remold/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Plan is a declarative migration over one project tree. Sections execute
// in a fixed order: merges, creates, file edits, removals.
type Plan struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Merges      []Merge    `yaml:"merges,omitempty" json:"merges,omitempty"`
	Creates     []Create   `yaml:"creates,omitempty" json:"creates,omitempty"`
	Files       []FileEdit `yaml:"files,omitempty" json:"files,omitempty"`
	Removals    []Removal  `yaml:"removals,omitempty" json:"removals,omitempty"`
}

// FileEdit collects the line-level mutations for one target file. A missing
// target is skipped with a warning unless Required is set.
type FileEdit struct {
	Path           string     `yaml:"path" json:"path"`
	Required       bool       `yaml:"required,omitempty" json:"required,omitempty"`
	RemovePatterns []string   `yaml:"remove_patterns,omitempty" json:"remove_patterns,omitempty"`
	Inserts        []Insert   `yaml:"inserts,omitempty" json:"inserts,omitempty"`
	ListEdits      []ListEdit `yaml:"list_edits,omitempty" json:"list_edits,omitempty"`
}

// Insert places a content block after the first line containing Marker, or
// at end of file when Marker is empty or absent. The engine checks for the
// block before inserting, so applying a plan twice never duplicates it.
type Insert struct {
	Marker  string `yaml:"marker,omitempty" json:"marker,omitempty"`
	Content string `yaml:"content" json:"content"`
}

// ListEdit maintains a bracketed list block: lines matching any
// RemoveContaining pattern are dropped, then each entry is inserted after
// the block opener unless already present anywhere in the file.
type ListEdit struct {
	Opener           string   `yaml:"opener" json:"opener"`
	Entries          []string `yaml:"entries,omitempty" json:"entries,omitempty"`
	RemoveContaining []string `yaml:"remove_containing,omitempty" json:"remove_containing,omitempty"`
	Indent           string   `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// Create ensures a file exists with exactly the given content.
type Create struct {
	Path    string `yaml:"path" json:"path"`
	Content string `yaml:"content" json:"content"`
}

// Merge relocates the contents of Source into Destination.
type Merge struct {
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination" json:"destination"`
}

// Removal deletes a path. With NameContains set, Path must be a directory
// and only its files whose names contain the substring are removed.
type Removal struct {
	Path         string `yaml:"path" json:"path"`
	NameContains string `yaml:"name_contains,omitempty" json:"name_contains,omitempty"`
}

// LoadPlan reads, schema-validates, and decodes a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- plan path is an explicit CLI argument
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	return ParsePlan(data)
}

// ParsePlan schema-validates and decodes YAML plan content.
func ParsePlan(data []byte) (*Plan, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := validatePlanDocument(raw); err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

// validatePlanDocument checks the decoded plan against the embedded JSON
// schema so malformed plans fail before any file is touched.
func validatePlanDocument(doc interface{}) error {
	schemaLoader := gojsonschema.NewBytesLoader(assets.PlanSchema())
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("plan schema validation: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("plan does not match schema:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
