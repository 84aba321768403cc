package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redocManifest() *Manifest {
	return &Manifest{
		Name: "validate-redoc",
		Dirs: []string{
			"Resources/OpenAPI",
			"Resources/Views",
			"Public/redoc",
		},
		Files: []string{
			"Resources/OpenAPI/openapi.yml",
			"Resources/Views/redoc.leaf",
			"Public/redoc/redoc.standalone.*",
		},
		Markers: []MarkerExpectation{
			{Path: "Sources/App/routes.swift", Contains: []string{`app.get("docs")`, `app.get("openapi.yml")`}},
			{Path: "Sources/App/configure.swift", Contains: []string{"app.views.use(.leaf)"}},
		},
		ListEntries: []EntryExpectation{
			{
				Path:    "Package.swift",
				Opener:  "resources: [",
				Entries: []string{`.process("Resources/Views"),`},
			},
		},
	}
}

func validScaffold(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "Resources/OpenAPI/openapi.yml", "openapi: 3.0.0\n")
	writeFixture(t, root, "Resources/Views/redoc.leaf", "<html></html>\n")
	writeFixture(t, root, "Public/redoc/redoc.standalone.css", "body {}\n")
	writeFixture(t, root, "Public/redoc/redoc.standalone.js", "// redoc\n")
	writeFixture(t, root, "Sources/App/routes.swift",
		"func routes(_ app: Application) throws {\n"+
			"    app.get(\"openapi.yml\") { req in req.view }\n"+
			"    app.get(\"docs\") { req in req.view.render(\"redoc\") }\n"+
			"}\n")
	writeFixture(t, root, "Sources/App/configure.swift",
		"public func configure(_ app: Application) throws {\n"+
			"    app.views.use(.leaf)\n"+
			"}\n")
	writeFixture(t, root, "Package.swift",
		"let package = Package(\n"+
			"            resources: [\n"+
			"                .process(\"Resources/Views\"),\n"+
			"            ]\n"+
			")\n")
	return root
}

func TestCheckPassesOnCompleteScaffold(t *testing.T) {
	root := validScaffold(t)
	discrepancies, err := Check(root, redocManifest())
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestCheckReportsSingleMissingFile(t *testing.T) {
	root := validScaffold(t)
	require.NoError(t, os.Remove(filepath.Join(root, "Resources/Views/redoc.leaf")))

	discrepancies, err := Check(root, redocManifest())
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, "file", discrepancies[0].Kind)
	assert.Contains(t, discrepancies[0].Detail, "Resources/Views/redoc.leaf")
}

func TestCheckReportsMissingMarker(t *testing.T) {
	root := validScaffold(t)
	writeFixture(t, root, "Sources/App/configure.swift", "public func configure(_ app: Application) throws {\n}\n")

	discrepancies, err := Check(root, redocManifest())
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, "marker", discrepancies[0].Kind)
	assert.Contains(t, discrepancies[0].Detail, "app.views.use(.leaf)")
}

func TestCheckReportsMissingListEntryAndBlock(t *testing.T) {
	root := validScaffold(t)

	t.Run("entry absent", func(t *testing.T) {
		writeFixture(t, root, "Package.swift", "let package = Package(\n    resources: [\n    ]\n)\n")
		discrepancies, err := Check(root, redocManifest())
		require.NoError(t, err)
		require.Len(t, discrepancies, 1)
		assert.Equal(t, "entry", discrepancies[0].Kind)
	})

	t.Run("block absent", func(t *testing.T) {
		writeFixture(t, root, "Package.swift", "let package = Package()\n")
		discrepancies, err := Check(root, redocManifest())
		require.NoError(t, err)
		require.Len(t, discrepancies, 1)
		assert.Contains(t, discrepancies[0].Detail, `List block "resources: [" not found`)
	})
}

func TestCheckOrdersDiscrepanciesByManifest(t *testing.T) {
	root := t.TempDir()

	discrepancies, err := Check(root, redocManifest())
	require.NoError(t, err)
	require.NotEmpty(t, discrepancies)

	// Dirs come first, then files, then markers, then list entries.
	kinds := make([]string, 0, len(discrepancies))
	for _, d := range discrepancies {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []string{
		"dir", "dir", "dir",
		"file", "file", "file",
		"file", "file",
		"file",
	}, kinds)
}

func TestCheckNeverMutates(t *testing.T) {
	root := validScaffold(t)
	before := readFixture(t, root, "Package.swift")

	_, err := Check(root, redocManifest())
	require.NoError(t, err)
	assert.Equal(t, before, readFixture(t, root, "Package.swift"))
}

func TestCheckValidatorAgreesWithMutator(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Package.swift",
		"let package = Package(\n"+
			"            resources: [\n"+
			"            ]\n"+
			")\n")

	manifest := &Manifest{
		Name: "post-fix",
		ListEntries: []EntryExpectation{{
			Path:    "Package.swift",
			Opener:  "resources: [",
			Entries: []string{`.process("Resources/Views"),`},
		}},
	}

	// Before the mutation the validator reports the gap.
	discrepancies, err := Check(root, manifest)
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)

	plan := &Plan{
		Name: "fix",
		Files: []FileEdit{{
			Path: "Package.swift",
			ListEdits: []ListEdit{{
				Opener:  "resources: [",
				Entries: []string{`.process("Resources/Views"),`},
			}},
		}},
	}
	report, err := NewEngine(root).Apply(plan)
	require.NoError(t, err)
	require.False(t, report.HasFailures())

	// After the mutation the same manifest passes.
	discrepancies, err = Check(root, manifest)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: validate
dirs:
  - Public/redoc
files:
  - Resources/Views/redoc.leaf
markers:
  - path: Sources/App/routes.swift
    contains:
      - app.get("docs")
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "validate", m.Name)
	assert.Len(t, m.Dirs, 1)
	require.Len(t, m.Markers, 1)
	assert.Equal(t, []string{`app.get("docs")`}, m.Markers[0].Contains)
}
