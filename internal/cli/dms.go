package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/dms"
	"github.com/slackerhq/slacker/internal/feed"
	"github.com/slackerhq/slacker/internal/logger"
)

func newDMsCommand(a *app) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "dms",
		Short: "List DM conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoff, err := dms.ParseSince(since, time.Now())
			if err != nil {
				return err
			}
			client, _, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			authResp, err := client.AuthTest(ctx)
			if err != nil {
				return a.fail("authentication failed: %v", err)
			}

			resolver := feed.NewResolver(logger.Service("feed"), client, a.cfg.API.EdgeBaseURL)
			svc := dms.NewService(logger.Service("dms"), client, resolver)
			result, err := svc.List(ctx, cutoff, authResp.UserID)
			if err != nil {
				return a.fail("list dms: %v", err)
			}
			return a.formatter.DMs(result)
		},
	}
	cmd.Flags().StringVarP(&since, "since", "s", "today", `show DMs since this time ("yesterday", "36h", "2006-01-02")`)
	return cmd
}
