package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/feed"
	"github.com/slackerhq/slacker/internal/logger"
	"github.com/slackerhq/slacker/internal/reminders"
)

func newRemindersCommand(a *app) *cobra.Command {
	var limit int
	var remindersOnly bool

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List saved reminders and later items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, file, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			workspaceURL := file.WorkspaceURL(a.team)
			if workspaceURL == "" {
				if authResp, err := client.AuthTest(ctx); err == nil {
					workspaceURL = strings.TrimRight(authResp.URL, "/")
				}
			}

			resolver := feed.NewResolver(logger.Service("feed"), client, a.cfg.API.EdgeBaseURL)
			svc := reminders.NewService(logger.Service("reminders"), client, resolver)
			items, counts, err := svc.List(ctx, limit, remindersOnly, workspaceURL)
			if err != nil {
				return a.fail("list reminders: %v", err)
			}
			return a.formatter.Reminders(items, counts)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum number of items")
	cmd.Flags().BoolVarP(&remindersOnly, "reminders-only", "r", false, "show only reminders, not saved messages")
	return cmd
}
