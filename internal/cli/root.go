// Package cli defines the luis-provisioner cobra commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// Set from main via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luis-provisioner",
		Short: "Provision a LUIS application from a manifest",
		Long: `luis-provisioner creates a LUIS application, defines its intents and
entities, submits labeled example utterances, trains the version and
publishes it to the staging slot.

The manifest and credentials come from configs/config.yaml (or --config)
and the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(NewProvisionCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewWaitCommand())
	rootCmd.AddCommand(NewPublishCommand())
	rootCmd.AddCommand(NewStepsCommand())

	return rootCmd
}

// Execute runs the root command, reporting any error on the command's stderr.
// The caller owns the exit code.
func Execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
