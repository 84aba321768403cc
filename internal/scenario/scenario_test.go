package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/remold/pkg/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshVaporProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("Package.swift", `// swift-tools-version:5.9
import PackageDescription

let package = Package(
    name: "App",
    dependencies: [
        .package(url: "https://github.com/vapor/vapor.git", from: "4.0.0"),
    ],
    targets: [
        .target(
            name: "App",
            resources: [
            ],
            exclude: [
            ]
        ),
    ]
)
`)
	write("Sources/App/routes.swift", `import Vapor

func routes(_ app: Application) throws {
    try app.register(collection: TodoController())
}
`)
	write("Sources/App/configure.swift", `import Vapor

public func configure(_ app: Application) throws {
    app.migrations.add(CreateTodo())
    app.views.use(.leaf)
}
`)
	write("Sources/App/Controllers/TodoController.swift", "final class TodoController {}\n")
	write("Sources/App/Migrations/CreateTodo.swift", "struct CreateTodo {}\n")

	return root
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel))) // #nosec G304 -- test fixture path
	require.NoError(t, err)
	return string(data)
}

func TestGetAndNames(t *testing.T) {
	assert.Equal(t, []string{"clean", "fix", "rollback", "setup"}, Names())

	for _, name := range Names() {
		plan, err := Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, plan.Name)
	}

	_, err := Get("bogus")
	assert.Error(t, err)
}

func TestCleanThenSetupEndToEnd(t *testing.T) {
	root := freshVaporProject(t)
	engine := scaffold.NewEngine(root)

	cleanReport, err := engine.Apply(Clean())
	require.NoError(t, err)
	require.False(t, cleanReport.HasFailures())

	routes := read(t, root, "Sources/App/routes.swift")
	assert.NotContains(t, routes, "TodoController")

	setupReport, err := engine.Apply(Setup())
	require.NoError(t, err)
	require.False(t, setupReport.HasFailures())

	assert.FileExists(t, filepath.Join(root, "Resources/OpenAPI/openapi.yml"))
	assert.FileExists(t, filepath.Join(root, "Resources/Views/redoc.leaf"))
	assert.Contains(t, read(t, root, "Sources/App/configure.swift"), "OpenAPIMiddleware")
	assert.Contains(t, read(t, root, "Sources/App/routes.swift"), `app.get("docs")`)
	assert.Contains(t, read(t, root, "Package.swift"), "OpenAPIServe.git")

	// The validation manifest agrees with the applied state.
	discrepancies, err := scaffold.Check(root, ValidationManifest())
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestSetupIsIdempotent(t *testing.T) {
	root := freshVaporProject(t)
	engine := scaffold.NewEngine(root)

	_, err := engine.Apply(Setup())
	require.NoError(t, err)
	snapshot := map[string]string{
		"Package.swift":               read(t, root, "Package.swift"),
		"Sources/App/routes.swift":    read(t, root, "Sources/App/routes.swift"),
		"Sources/App/configure.swift": read(t, root, "Sources/App/configure.swift"),
	}

	second, err := engine.Apply(Setup())
	require.NoError(t, err)
	require.False(t, second.HasFailures())
	for _, action := range second.Actions {
		assert.False(t, action.Changed, "second setup run must be a no-op: %+v", action)
	}
	for rel, want := range snapshot {
		assert.Equal(t, want, read(t, root, rel), rel)
	}
}

func TestRollbackUndoesSetup(t *testing.T) {
	root := freshVaporProject(t)
	engine := scaffold.NewEngine(root)

	_, err := engine.Apply(Setup())
	require.NoError(t, err)

	rollbackReport, err := engine.Apply(Rollback())
	require.NoError(t, err)
	require.False(t, rollbackReport.HasFailures())

	_, statErr := os.Stat(filepath.Join(root, "Resources/OpenAPI"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, "Resources/Views/redoc.leaf"))
	assert.True(t, os.IsNotExist(statErr))

	configure := read(t, root, "Sources/App/configure.swift")
	assert.NotContains(t, configure, "OpenAPIMiddleware")

	discrepancies, err := scaffold.Check(root, ValidationManifest())
	require.NoError(t, err)
	assert.NotEmpty(t, discrepancies, "validation must fail after rollback")
}

func TestFixRelocatesMisplacedResources(t *testing.T) {
	root := freshVaporProject(t)

	// Misplaced top-level resources and a doubly nested tree, the two
	// shapes the generators left behind.
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("Resources/Views/redoc.leaf", "<html></html>\n")
	write("Resources/openapi.yml", "openapi: 3.0.0\n")
	write("Sources/App/Resources/Sources/App/Resources/Views/other.leaf", "nested\n")

	report, err := scaffold.NewEngine(root).Apply(Fix())
	require.NoError(t, err)
	require.False(t, report.HasFailures(), "%+v", report.Actions)
	assert.False(t, report.HasConflicts())

	assert.Equal(t, "<html></html>\n", read(t, root, "Sources/App/Resources/Views/redoc.leaf"))
	assert.Equal(t, "openapi: 3.0.0\n", read(t, root, "Sources/App/Resources/openapi.yml"))
	assert.Equal(t, "nested\n", read(t, root, "Sources/App/Resources/Views/other.leaf"))

	_, statErr := os.Stat(filepath.Join(root, "Resources"))
	assert.True(t, os.IsNotExist(statErr), "top-level Resources should be gone")
	_, statErr = os.Stat(filepath.Join(root, "Sources/App/Resources/Sources"))
	assert.True(t, os.IsNotExist(statErr), "nested subtree should be gone")

	manifest := read(t, root, "Package.swift")
	assert.Contains(t, manifest, `.process("Sources/App/Resources/Views"),`)
	assert.Contains(t, manifest, `.process("Sources/App/Resources/openapi.yml"),`)
	assert.Contains(t, manifest, "Docs.docc")

	// Fix is idempotent too: a second run reports no changes.
	again, err := scaffold.NewEngine(root).Apply(Fix())
	require.NoError(t, err)
	require.False(t, again.HasFailures())
	for _, action := range again.Actions {
		assert.False(t, action.Changed, "%+v", action)
	}
}

func TestScenarioContentCarriesNoNetworkFetch(t *testing.T) {
	// Asset retrieval over the network is out of scope; the shipped
	// templates must reference local paths only.
	for _, create := range Setup().Creates {
		assert.False(t, strings.Contains(create.Content, "http://") ||
			strings.Contains(create.Content, "cdn.jsdelivr.net"),
			"template %s must not pull remote assets", create.Path)
	}
}
