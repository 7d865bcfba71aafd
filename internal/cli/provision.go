package cli

import (
	"github.com/spf13/cobra"
)

func NewProvisionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create, populate, train and publish a new application",
		Long: `Run every provisioning step in order against a freshly created
application. Each run creates a new application; nothing is reused.

Examples:
  luis-provisioner provision
  luis-provisioner provision --config ./configs/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer env.close()

			rep, err := env.runner.Provision(ctx)
			if rep != nil {
				env.log.Info("provisioning finished", map[string]interface{}{
					"runId":  rep.RunID.String(),
					"appId":  rep.App.ID,
					"steps":  len(rep.Results),
					"failed": len(rep.Failed()),
				})
			}
			return err
		},
	}
}
