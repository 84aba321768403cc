/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/pkg/buildinfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		extended, _ := cmd.Flags().GetBool("extended")
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "remold %s\n", buildinfo.BinaryVersion)
		if extended {
			fmt.Fprintf(out, "module:     %s\n", buildinfo.ModuleVersion())
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		}
	},
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show module, toolchain, and platform details")

	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		panic(fmt.Sprintf("failed to register version command: %v", err))
	}
}
