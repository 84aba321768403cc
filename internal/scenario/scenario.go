// Package scenario defines the built-in migration plans remold ships for
// generated Vapor projects: stripping template boilerplate, wiring OpenAPI
// and ReDoc serving, repairing misplaced resource trees, rolling the setup
// back, and validating the end state. Each scenario is plain data over the
// scaffold engine; the content strings here are inputs, not engine logic.
package scenario

import (
	"fmt"
	"sort"

	"github.com/fulmenhq/remold/internal/assets"
	"github.com/fulmenhq/remold/pkg/scaffold"
)

const openAPIServeMiddleware = `    // Middleware configuration for OpenAPIServe
    let openapiFilePath = app.directory.resourcesDirectory + "openapi.yml"
    let dataProvider = FileDataProvider(filePath: openapiFilePath)
    app.middleware.use(OpenAPIMiddleware(dataProvider: dataProvider))
`

const docsRoutes = `
app.get("openapi.yml") { req -> Response in
    let filePath = app.directory.resourcesDirectory + "OpenAPI/openapi.yml"
    return req.fileio.streamFile(at: filePath)
}

app.get("docs") { req -> View in
    return req.view.render("redoc")
}
`

const fileDataProvider = `import Vapor

/// Provides OpenAPI spec data from a file.
public struct FileDataProvider: DataProvider {
    private let filePath: String

    public init(filePath: String) {
        self.filePath = filePath
    }

    public func getData() -> String {
        guard let data = try? String(contentsOfFile: filePath, encoding: .utf8) else {
            return ""
        }
        return data
    }
}
`

// Clean strips the `swift new` template boilerplate (TodoController,
// CreateTodo) from a freshly generated project.
func Clean() *scaffold.Plan {
	return &scaffold.Plan{
		Name:        "clean",
		Description: "remove default Todo boilerplate from a generated Vapor project",
		Files: []scaffold.FileEdit{
			{
				Path:           "Sources/App/routes.swift",
				RemovePatterns: []string{"TodoController", "register(collection:"},
			},
			{
				Path:           "Sources/App/configure.swift",
				RemovePatterns: []string{"CreateTodo", "app.migrations.add"},
			},
		},
		Removals: []scaffold.Removal{
			{Path: "Sources/App/Controllers", NameContains: "Todo"},
			{Path: "Sources/App/Migrations", NameContains: "Todo"},
		},
	}
}

// Setup wires OpenAPIServe and a ReDoc documentation page into the project:
// the package dependency, the middleware, the routes, and the spec and
// template files.
func Setup() *scaffold.Plan {
	return &scaffold.Plan{
		Name:        "setup",
		Description: "add OpenAPI serving and a ReDoc documentation page",
		Creates: []scaffold.Create{
			{Path: "Resources/OpenAPI/openapi.yml", Content: assets.MustTemplate("openapi.yml")},
			{Path: "Resources/Views/redoc.leaf", Content: assets.MustTemplate("redoc.leaf")},
			{Path: "Sources/App/Providers/FileDataProvider.swift", Content: fileDataProvider},
		},
		Files: []scaffold.FileEdit{
			{
				Path:     "Package.swift",
				Required: true,
				ListEdits: []scaffold.ListEdit{
					{
						Opener: "dependencies: [",
						Entries: []string{
							`.package(url: "https://github.com/Contexter/OpenAPIServe.git", from: "1.0.0"),`,
							`.product(name: "OpenAPIServe", package: "OpenAPIServe"),`,
						},
						Indent: "        ",
					},
				},
			},
			{
				Path: "Sources/App/configure.swift",
				Inserts: []scaffold.Insert{
					{Marker: "public func configure", Content: openAPIServeMiddleware},
				},
			},
			{
				Path: "Sources/App/routes.swift",
				Inserts: []scaffold.Insert{
					{Content: docsRoutes},
				},
			},
		},
	}
}

// Fix relocates resources that generators or earlier fixes left in the
// wrong place (top-level Resources, doubly nested Sources/App trees) and
// repairs the resource and exclude declarations in Package.swift.
func Fix() *scaffold.Plan {
	return &scaffold.Plan{
		Name:        "fix",
		Description: "relocate misplaced resource trees and repair Package.swift",
		Merges: []scaffold.Merge{
			{
				Source:      "Sources/App/Resources/Sources/App/Resources",
				Destination: "Sources/App/Resources",
			},
			{
				Source:      "Resources",
				Destination: "Sources/App/Resources",
			},
		},
		Files: []scaffold.FileEdit{
			{
				Path:     "Package.swift",
				Required: true,
				ListEdits: []scaffold.ListEdit{
					{
						Opener: "resources: [",
						RemoveContaining: []string{
							`.process("Resources`,
							`.process("Sources/App/Sources`,
						},
						Entries: []string{
							`.process("Sources/App/Resources/Views"),`,
							`.process("Sources/App/Resources/openapi.yml"),`,
						},
						Indent: "                ",
					},
					{
						Opener: "exclude: [",
						Entries: []string{
							`".build/checkouts/leaf-kit/Sources/LeafKit/Docs.docc",`,
							`".build/checkouts/swift-algorithms/Sources/Algorithms/Documentation.docc",`,
						},
						Indent: "        ",
					},
				},
			},
		},
	}
}

// Rollback removes everything Setup created and strips the inserted lines,
// restoring the pre-setup state. Modeled as inverse operations, not an
// undo log.
func Rollback() *scaffold.Plan {
	return &scaffold.Plan{
		Name:        "rollback",
		Description: "remove the OpenAPI/ReDoc setup and its route and middleware lines",
		Files: []scaffold.FileEdit{
			{
				Path:           "Sources/App/routes.swift",
				RemovePatterns: []string{"openapi.yml", `"docs"`},
			},
			{
				Path:           "Sources/App/configure.swift",
				RemovePatterns: []string{"OpenAPIMiddleware", "OpenAPIServe", "openapiFilePath", "FileDataProvider"},
			},
		},
		Removals: []scaffold.Removal{
			{Path: "Resources/OpenAPI"},
			{Path: "Resources/Views/redoc.leaf"},
			{Path: "Public/redoc"},
			{Path: "Sources/App/Providers/FileDataProvider.swift"},
		},
	}
}

// ValidationManifest describes the artifacts a completed setup must have.
// Check passing and Setup reporting "no changes" are the same fact about
// the tree.
func ValidationManifest() *scaffold.Manifest {
	return &scaffold.Manifest{
		Name: "validate",
		Dirs: []string{
			"Resources/OpenAPI",
			"Resources/Views",
		},
		Files: []string{
			"Resources/OpenAPI/openapi.yml",
			"Resources/Views/redoc.leaf",
		},
		Markers: []scaffold.MarkerExpectation{
			{
				Path:     "Sources/App/routes.swift",
				Contains: []string{`app.get("openapi.yml")`, `app.get("docs")`},
			},
			{
				Path:     "Sources/App/configure.swift",
				Contains: []string{"OpenAPIMiddleware"},
			},
		},
		ListEntries: []scaffold.EntryExpectation{
			{
				Path:    "Package.swift",
				Opener:  "dependencies: [",
				Entries: []string{`.package(url: "https://github.com/Contexter/OpenAPIServe.git", from: "1.0.0"),`},
			},
		},
	}
}

var plans = map[string]func() *scaffold.Plan{
	"clean":    Clean,
	"setup":    Setup,
	"fix":      Fix,
	"rollback": Rollback,
}

// Get returns the built-in plan with the given name.
func Get(name string) (*scaffold.Plan, error) {
	builder, ok := plans[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return builder(), nil
}

// Names lists the built-in scenario names in stable order.
func Names() []string {
	names := make([]string, 0, len(plans))
	for name := range plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
