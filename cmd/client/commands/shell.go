package commands

import (
	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/client/shell"
)

// shell: start an interactive session.
func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell.Shell{
				Policies:  appCtx.Policies,
				Feedback:  appCtx.Feedback,
				Favorites: appCtx.Favorites,
				Clipboard: appCtx.Clipboard,
				SiteURL:   appCtx.SiteURL,
				In:        cmd.InOrStdin(),
				Out:       out(cmd),
				Log:       appCtx.Log,
			}
			return sh.Run(cmd.Context())
		},
	}
}
