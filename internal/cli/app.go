package cli

import (
	"context"

	"github.com/spf13/cobra"

	"luis-provisioner/internal/common/luis"
	"luis-provisioner/internal/pipeline"
)

type appFlags struct {
	appID   string
	version string
}

func (f *appFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.appID, "app-id", "", "Application id (default: the last one provisioned)")
	cmd.Flags().StringVar(&f.version, "version", "", "Version id (default: application.version)")
}

type appAction func(r *pipeline.Runner, ctx context.Context, app luis.ApplicationInfo) (*pipeline.Report, error)

// newAppCommand builds a command that runs one step against an existing application.
func newAppCommand(use, short, long string, action appAction) *cobra.Command {
	var flags appFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer env.close()

			app, err := env.runner.ResolveApplication(ctx, flags.appID, flags.version)
			if err != nil {
				return err
			}
			_, err = action(env.runner, ctx, app)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func NewStatusCommand() *cobra.Command {
	return newAppCommand("status", "Print the training status once",
		`Query the training status of an application version and print the
first model's status.

Examples:
  luis-provisioner status --app-id 1b2c3d4e-0000-0000-0000-000000000000
  luis-provisioner status`,
		(*pipeline.Runner).CheckStatus)
}

func NewWaitCommand() *cobra.Command {
	return newAppCommand("wait", "Wait until training finishes",
		`Poll the training status every training.poll_interval until every model
is terminal or training.max_wait elapses. Fails if any model failed.`,
		(*pipeline.Runner).WaitForTraining)
}

func NewPublishCommand() *cobra.Command {
	return newAppCommand("publish", "Publish a version to the staging slot",
		`Publish an application version and print its endpoint URL. Training
state is not checked; run "wait" first if that matters.`,
		(*pipeline.Runner).Publish)
}
