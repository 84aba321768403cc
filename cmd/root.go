/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/remold/internal/ops"
	"github.com/fulmenhq/remold/pkg/buildinfo"
	"github.com/fulmenhq/remold/pkg/exitcode"
	"github.com/fulmenhq/remold/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remold",
		Short: "Idempotent scaffold-mutation tool for generated server projects",
		Long: `Remold patches generated server-framework projects: it strips template
boilerplate, inserts configuration blocks after markers, keeps manifest
list blocks correct, and relocates misplaced resource directories. Every
mutation is safe to re-run; nothing is ever inserted twice.

Examples:
   remold clean               # strip default Todo boilerplate
   remold setup --dry-run     # preview the OpenAPI/ReDoc setup
   remold apply --plan m.yaml # run a custom migration plan
   remold validate            # report missing scaffold artifacts`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("root", "", "Project root to operate on (default: $REMOLD_ROOT, .remold.yaml, or the working directory)")
	cmd.PersistentFlags().Bool("dry-run", false, "Report would-be changes without writing any")
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("remold {{.Version}}\n")

	// Grouped help (Mutate → Verify → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Mutation Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupMutate) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Verification Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupVerify) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production and explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(applyCmd)
	cmd.AddCommand(cleanCmd)
	cmd.AddCommand(setupCmd)
	cmd.AddCommand(fixCmd)
	cmd.AddCommand(rollbackCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(envinfoCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// exitError carries a specific process exit code out of a RunE function.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	if e.message != "" {
		return e.message
	}
	return exitcode.String(e.code)
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		logger.Error(exit.Error())
		os.Exit(exit.code)
	}
	logger.Error("Command execution failed", logger.Err(err))
	os.Exit(exitcode.GeneralError)
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "remold",
		DryRun:    dryRun,
	})
}

// resolveRoot determines the project root for an invocation: the --root
// flag wins, then REMOLD_ROOT, then the root key of a .remold.yaml in the
// working directory, then the working directory itself.
func resolveRoot(cmd *cobra.Command) (string, error) {
	if flagRoot, _ := cmd.Flags().GetString("root"); flagRoot != "" {
		return flagRoot, nil
	}

	v := viper.New()
	v.SetEnvPrefix("REMOLD")
	v.AutomaticEnv()
	v.SetConfigName(".remold")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return "", fmt.Errorf("read .remold.yaml: %w", err)
		}
	}
	if configured := v.GetString("root"); configured != "" {
		return configured, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	return wd, nil
}
