package scaffold

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/remold/pkg/safeio"
	"github.com/fulmenhq/remold/pkg/textedit"
	"gopkg.in/yaml.v3"
)

// Manifest declares the artifacts a correctly patched scaffold must have.
// Path expectations accept doublestar glob patterns; a literal path is a
// degenerate pattern matching only itself.
type Manifest struct {
	Name        string              `yaml:"name" json:"name"`
	Files       []string            `yaml:"files,omitempty" json:"files,omitempty"`
	Dirs        []string            `yaml:"dirs,omitempty" json:"dirs,omitempty"`
	Markers     []MarkerExpectation `yaml:"markers,omitempty" json:"markers,omitempty"`
	ListEntries []EntryExpectation  `yaml:"list_entries,omitempty" json:"list_entries,omitempty"`
}

// MarkerExpectation requires a file to contain every listed substring.
type MarkerExpectation struct {
	Path     string   `yaml:"path" json:"path"`
	Contains []string `yaml:"contains" json:"contains"`
}

// EntryExpectation requires a list block to exist and to hold every listed
// entry, using the same matching rules as the mutating list editor.
type EntryExpectation struct {
	Path    string   `yaml:"path" json:"path"`
	Opener  string   `yaml:"opener" json:"opener"`
	Entries []string `yaml:"entries" json:"entries"`
}

// Discrepancy is one human-readable deviation from the manifest.
type Discrepancy struct {
	Kind   string `json:"kind"` // file, dir, marker, entry
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

func (d Discrepancy) String() string {
	return d.Detail
}

// LoadManifest reads and decodes a YAML validation manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path is an explicit CLI argument
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest YAML: %w", err)
	}
	return &m, nil
}

// Check inspects the tree under root against the manifest and returns the
// discrepancies in manifest order. It never mutates; an empty result means
// every expectation holds. Matching semantics mirror the mutators:
// existence for paths, substring containment for markers, trimmed-line
// equality for list entries.
func Check(root string, m *Manifest) ([]Discrepancy, error) {
	if m == nil {
		return nil, fmt.Errorf("nil manifest")
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	fsys := os.DirFS(root)
	var out []Discrepancy

	for _, pattern := range m.Dirs {
		found, err := globHasMatch(fsys, pattern, true)
		if err != nil {
			return nil, err
		}
		if !found {
			out = append(out, Discrepancy{Kind: "dir", Path: pattern, Detail: fmt.Sprintf("Missing directory: %s", pattern)})
		}
	}

	for _, pattern := range m.Files {
		found, err := globHasMatch(fsys, pattern, false)
		if err != nil {
			return nil, err
		}
		if !found {
			out = append(out, Discrepancy{Kind: "file", Path: pattern, Detail: fmt.Sprintf("Missing file: %s", pattern)})
		}
	}

	for _, exp := range m.Markers {
		data, err := safeio.ReadFileContained(root, exp.Path)
		if os.IsNotExist(err) {
			out = append(out, Discrepancy{Kind: "file", Path: exp.Path, Detail: fmt.Sprintf("Missing file: %s", exp.Path)})
			continue
		}
		if err != nil {
			return nil, err
		}
		doc := textedit.Parse(data)
		for _, marker := range exp.Contains {
			if textedit.FindLine(doc, marker) == -1 {
				out = append(out, Discrepancy{
					Kind:   "marker",
					Path:   exp.Path,
					Detail: fmt.Sprintf("Marker %q not found in: %s", marker, exp.Path),
				})
			}
		}
	}

	for _, exp := range m.ListEntries {
		data, err := safeio.ReadFileContained(root, exp.Path)
		if os.IsNotExist(err) {
			out = append(out, Discrepancy{Kind: "file", Path: exp.Path, Detail: fmt.Sprintf("Missing file: %s", exp.Path)})
			continue
		}
		if err != nil {
			return nil, err
		}
		doc := textedit.Parse(data)
		if textedit.FindLine(doc, exp.Opener) == -1 {
			out = append(out, Discrepancy{
				Kind:   "entry",
				Path:   exp.Path,
				Detail: fmt.Sprintf("List block %q not found in: %s", exp.Opener, exp.Path),
			})
			continue
		}
		for _, entry := range exp.Entries {
			if !textedit.HasEntry(doc, entry) {
				out = append(out, Discrepancy{
					Kind:   "entry",
					Path:   exp.Path,
					Detail: fmt.Sprintf("List entry %q not found in: %s", entry, exp.Path),
				})
			}
		}
	}

	return out, nil
}

// globHasMatch reports whether pattern matches at least one entry of the
// wanted kind under fsys.
func globHasMatch(fsys fs.FS, pattern string, wantDir bool) (bool, error) {
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return false, fmt.Errorf("bad path pattern %q: %w", pattern, err)
	}
	for _, match := range matches {
		info, statErr := fs.Stat(fsys, match)
		if statErr != nil {
			continue
		}
		if info.IsDir() == wantDir {
			return true, nil
		}
	}
	return false, nil
}
