package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"luis-provisioner/pkg/registry"
)

func NewStepsCommand() *cobra.Command {
	var catalog string
	cmd := &cobra.Command{
		Use:   "steps [step...]",
		Short: "List the provisioning steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(catalog)
			if err != nil {
				return err
			}
			activities, err := selectSteps(reg, args)
			if err != nil {
				return err
			}
			return printSteps(cmd.OutOrStdout(), activities)
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "Read the step catalog from a JSON file instead of the built-in one")
	return cmd
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path != "" {
		return registry.LoadRegistry(path)
	}
	return registry.Default()
}

// selectSteps returns the named steps in argument order, or every step when none are named.
func selectSteps(reg *registry.ActivityRegistry, names []string) ([]registry.Activity, error) {
	if len(names) == 0 {
		return reg.Activities, nil
	}
	out := make([]registry.Activity, 0, len(names))
	for _, name := range names {
		a, ok := reg.Find(name)
		if !ok {
			return nil, fmt.Errorf("unknown step %q", name)
		}
		out = append(out, a)
	}
	return out, nil
}

func printSteps(w io.Writer, activities []registry.Activity) error {
	if _, err := fmt.Fprintf(w, "%-30s %-12s %-50s %s\n", "STEP", "CATEGORY", "ENDPOINT", "ERRORS"); err != nil {
		return err
	}
	for _, a := range activities {
		name := a.TaskType
		if a.Optional {
			name += " (optional)"
		}
		if _, err := fmt.Fprintf(w, "%-30s %-12s %-50s %s\n",
			name, a.Category, a.Endpoint, strings.Join(a.ErrorCodes, ",")); err != nil {
			return err
		}
	}
	return nil
}
