/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/internal/scenario"
	"github.com/fulmenhq/remold/pkg/exitcode"
	"github.com/fulmenhq/remold/pkg/logger"
	"github.com/fulmenhq/remold/pkg/scaffold"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a project tree against a validation manifest",
	Long: `Validate inspects the project without mutating it and reports every
artifact the manifest expects but the tree lacks: directories, files,
marker lines, and manifest list entries. Without --manifest it checks the
built-in expectations for a completed setup.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("manifest", "", "Path to a validation manifest YAML file (default: built-in setup expectations)")
	validateCmd.Flags().String("format", "text", "Report format (text, json)")

	if err := ops.RegisterCommand("validate", ops.GroupVerify, validateCmd, "Check a project tree against a validation manifest"); err != nil {
		panic(fmt.Sprintf("failed to register validate command: %v", err))
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return &exitError{code: exitcode.ConfigError, message: err.Error()}
	}

	manifest := scenario.ValidationManifest()
	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		manifest, err = scaffold.LoadManifest(manifestPath)
		if err != nil {
			return &exitError{code: exitcode.ConfigError, message: err.Error()}
		}
	}

	logger.Info("Validating project",
		logger.String("manifest", manifest.Name),
		logger.String("root", root))

	discrepancies, err := scaffold.Check(root, manifest)
	if err != nil {
		return &exitError{code: exitcode.FileSystemError, message: err.Error()}
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(discrepancies); err != nil {
			return err
		}
	} else {
		for _, d := range discrepancies {
			fmt.Fprintf(out, "- %s\n", d.Detail)
		}
		if len(discrepancies) == 0 {
			fmt.Fprintln(out, "All required files, directories, and markers are present.")
		}
	}

	if len(discrepancies) > 0 {
		return &exitError{
			code:    exitcode.ValidationFailed,
			message: fmt.Sprintf("validation found %d discrepancy(ies)", len(discrepancies)),
		}
	}
	return nil
}
