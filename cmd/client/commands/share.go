package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/view"
)

// share <id> [--network link|facebook|twitter]: copy the policy link or
// print a social share address.
func shareCmd() *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Copy a policy link or print a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch network {
			case "link", "facebook", "twitter":
			default:
				return fmt.Errorf("unknown network %q", network)
			}

			d, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			switch network {
			case "facebook":
				fmt.Fprintln(out(cmd), d.FacebookShareURL())
			case "twitter":
				fmt.Fprintln(out(cmd), d.TwitterShareURL())
			default:
				d.CopyLink(appCtx.Clipboard)
				fmt.Fprintln(out(cmd), d.CopyMessage())
				if d.CopyMessage() == view.MsgLinkCopyFailed {
					fmt.Fprintln(out(cmd), d.Location)
					return errors.New("clipboard unavailable")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", "link", "link, facebook or twitter")
	return cmd
}
