// Package assets carries the static content remold ships: scaffold
// templates referenced by the built-in scenarios and the JSON schema the
// plan loader validates against.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templates embed.FS

//go:embed schemas/remold-plan-v1.0.0.json
var planSchemaV1 []byte

// PlanSchema returns the JSON schema for migration plan files.
func PlanSchema() []byte {
	return planSchemaV1
}

// Template returns an embedded template by name (e.g. "redoc.leaf").
func Template(name string) ([]byte, error) {
	return fs.ReadFile(templates, "templates/"+name)
}

// MustTemplate returns an embedded template or panics. Intended for the
// built-in scenarios, whose template names are fixed at compile time.
func MustTemplate(name string) string {
	data, err := Template(name)
	if err != nil {
		panic("missing embedded template " + name + ": " + err.Error())
	}
	return string(data)
}
