/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/pkg/exitcode"
	"github.com/fulmenhq/remold/pkg/logger"
	"github.com/fulmenhq/remold/pkg/scaffold"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a migration plan from a YAML file",
	Long: `Apply loads a migration plan, validates it against the plan schema,
and executes it against the project root. Plans are idempotent: re-running
one against an already patched tree reports no changes.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().String("plan", "", "Path to the migration plan YAML file")
	applyCmd.Flags().String("format", "text", "Report format (text, json)")
	if err := applyCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}

	if err := ops.RegisterCommand("apply", ops.GroupMutate, applyCmd, "Apply a migration plan from a YAML file"); err != nil {
		panic(fmt.Sprintf("failed to register apply command: %v", err))
	}
}

func runApply(cmd *cobra.Command, _ []string) error {
	planPath, _ := cmd.Flags().GetString("plan")

	plan, err := scaffold.LoadPlan(planPath)
	if err != nil {
		return &exitError{code: exitcode.PlanError, message: err.Error()}
	}
	return runPlan(cmd, plan)
}

// runPlan resolves the root, applies the plan, prints the report, and maps
// failures to exit codes. Shared by apply and the built-in scenario commands.
func runPlan(cmd *cobra.Command, plan *scaffold.Plan) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return &exitError{code: exitcode.ConfigError, message: err.Error()}
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	logger.Info("Applying plan",
		logger.String("plan", plan.Name),
		logger.String("root", root))

	engine := scaffold.NewEngine(root, scaffold.WithDryRun(dryRun))
	report, err := engine.Apply(plan)
	if err != nil {
		return &exitError{code: exitcode.FileSystemError, message: err.Error()}
	}

	format, _ := cmd.Flags().GetString("format")
	if err := printReport(cmd.OutOrStdout(), report, format); err != nil {
		return err
	}

	if report.HasConflicts() {
		return &exitError{
			code:    exitcode.ConflictError,
			message: fmt.Sprintf("plan %s hit %d merge conflict(s)", plan.Name, len(report.Conflicts)),
		}
	}
	if report.HasFailures() {
		return &exitError{
			code:    exitcode.FileSystemError,
			message: fmt.Sprintf("plan %s finished with failures", plan.Name),
		}
	}
	return nil
}

func printReport(w io.Writer, report *scaffold.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	changed := 0
	for _, action := range report.Actions {
		status := "ok"
		switch {
		case action.Error != "":
			status = "FAIL"
		case action.Skipped:
			status = "skip"
		case action.Changed:
			status = "changed"
			changed++
		}
		detail := action.Detail
		if action.Error != "" {
			detail = action.Error
		}
		fmt.Fprintf(w, "%-7s %-6s %s", status, action.Kind, action.Target)
		if detail != "" {
			fmt.Fprintf(w, "  (%s)", detail)
		}
		fmt.Fprintln(w)
	}
	for _, conflict := range report.Conflicts {
		fmt.Fprintf(w, "conflict %s: destination already exists\n", conflict.RelPath)
	}
	if report.DryRun {
		fmt.Fprintf(w, "dry-run: %d action(s) would change the tree\n", changed)
	}
	return nil
}
