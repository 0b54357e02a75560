package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/PolicyFinder/internal/client/shell"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

// feedback <text> [--policy id]: send feedback.
func feedbackCmd() *cobra.Command {
	var policy int64
	cmd := &cobra.Command{
		Use:   "feedback <text>",
		Short: "Send feedback about the site or a policy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var policyID *int64
			if cmd.Flags().Changed("policy") {
				policyID = &policy
			}

			form := view.NewFeedbackForm(appCtx.Feedback, policyID, appCtx.Log)
			form.Comment = strings.Join(args, " ")
			ok := form.Submit(cmd.Context())
			shell.PrintMessage(out(cmd), form.Message())
			if !ok {
				return errors.New("feedback not sent")
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&policy, "policy", 0, "policy id the feedback is about")
	return cmd
}
