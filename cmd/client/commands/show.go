package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/client/shell"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

// show <id>: print one policy.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			defer d.Close()
			shell.PrintDetail(out(cmd), d, appCtx.Favorites)
			return nil
		},
	}
}

// loadDetail fetches policy id. When it is not available the state is
// printed and an error returned.
func loadDetail(cmd *cobra.Command, id string) (*view.Detail, error) {
	d := view.NewDetail(appCtx.Policies, appCtx.Log)
	d.Location = shell.PolicyURL(appCtx.SiteURL, id)
	d.Load(cmd.Context(), id)

	switch d.State() {
	case view.StateError:
		shell.PrintDetail(out(cmd), d, appCtx.Favorites)
		return nil, fmt.Errorf("could not fetch policy %s", id)
	case view.StateNotFound:
		shell.PrintDetail(out(cmd), d, appCtx.Favorites)
		return nil, fmt.Errorf("policy %s not found", id)
	}
	return d, nil
}
