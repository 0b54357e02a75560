package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/client/shell"
	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

// list [--query term] [--region name] [--target name]: print the policies
// passing the filters.
func listCmd() *cobra.Command {
	var term, region, target string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List policies, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if region != models.All && !models.IsRegion(region) {
				return fmt.Errorf("unknown region %q", region)
			}
			if target != models.All && !models.IsTarget(target) {
				return fmt.Errorf("unknown target %q", target)
			}

			l := view.NewListing(appCtx.Policies, appCtx.Log)
			l.SearchTerm = term
			l.SelectedRegion = region
			l.SelectedTarget = target
			l.Load(cmd.Context())

			shell.PrintListing(out(cmd), l, appCtx.Favorites)
			if l.State() == view.StateError {
				return errors.New("could not fetch policies")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "query", "q", "", "keyword that must occur in the title or description")
	cmd.Flags().StringVar(&region, "region", models.All, "region filter")
	cmd.Flags().StringVar(&target, "target", models.All, "target filter")
	return cmd
}
