/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/internal/scenario"
	"github.com/fulmenhq/remold/pkg/exitcode"
	"github.com/spf13/cobra"
)

// newScenarioCommand builds a command that runs one built-in migration plan.
// The plan is constructed at invocation time so each run gets fresh data.
func newScenarioCommand(name, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := scenario.Get(name)
			if err != nil {
				return &exitError{code: exitcode.PlanError, message: err.Error()}
			}
			return runPlan(cmd, plan)
		},
	}
	cmd.Flags().String("format", "text", "Report format (text, json)")
	return cmd
}

var cleanCmd = newScenarioCommand("clean",
	"Strip default Todo boilerplate from a generated project",
	`Clean removes the TodoController and CreateTodo scaffolding that the
Vapor template generator leaves behind: the registration and migration
lines, and the Todo source files under Controllers and Migrations.`)

var setupCmd = newScenarioCommand("setup",
	"Wire OpenAPI serving and a ReDoc documentation page",
	`Setup adds the OpenAPIServe package dependency, installs the middleware
in configure.swift, registers the /docs and /openapi.yml routes, and writes
the OpenAPI placeholder, the ReDoc view template, and the data provider.
Safe to re-run; nothing is inserted twice.`)

var fixCmd = newScenarioCommand("fix",
	"Relocate misplaced resource trees and repair Package.swift",
	`Fix merges top-level Resources/ and doubly nested
Sources/App/Resources/Sources/App/Resources trees into
Sources/App/Resources, then repairs the resources and exclude declarations
in Package.swift. Files already present at the destination are reported as
conflicts and left in place on both sides.`)

var rollbackCmd = newScenarioCommand("rollback",
	"Remove the OpenAPI/ReDoc setup",
	`Rollback is the inverse of setup: it deletes the created spec, view, and
provider files and strips the inserted middleware and route lines.`)

func init() {
	for _, reg := range []struct {
		name string
		cmd  *cobra.Command
	}{
		{"clean", cleanCmd},
		{"setup", setupCmd},
		{"fix", fixCmd},
		{"rollback", rollbackCmd},
	} {
		if err := ops.RegisterCommand(reg.name, ops.GroupMutate, reg.cmd, reg.cmd.Short); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", reg.name, err))
		}
	}
}
