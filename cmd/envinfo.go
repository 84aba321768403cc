/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/internal/scenario"
	"github.com/fulmenhq/remold/pkg/buildinfo"
	"github.com/spf13/cobra"
)

var envinfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Show environment and configuration information for diagnostics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := resolveRoot(cmd)
		if err != nil {
			return err
		}
		wd, _ := os.Getwd()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "remold version:    %s\n", buildinfo.BinaryVersion)
		fmt.Fprintf(out, "module version:    %s\n", buildinfo.ModuleVersion())
		fmt.Fprintf(out, "go version:        %s\n", runtime.Version())
		fmt.Fprintf(out, "platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "working directory: %s\n", wd)
		fmt.Fprintf(out, "project root:      %s\n", root)
		fmt.Fprintf(out, "REMOLD_ROOT:       %s\n", os.Getenv("REMOLD_ROOT"))
		fmt.Fprintf(out, "built-in plans:    %v\n", scenario.Names())
		return nil
	},
}

func init() {
	if err := ops.RegisterCommand("envinfo", ops.GroupSupport, envinfoCmd, "Show environment and configuration information"); err != nil {
		panic(fmt.Sprintf("failed to register envinfo command: %v", err))
	}
}
