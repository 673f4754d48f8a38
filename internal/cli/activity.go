package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/feed"
	"github.com/slackerhq/slacker/internal/logger"
)

func newActivityCommand(a *app) *cobra.Command {
	var tab string
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity feed (mentions, threads, reactions)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch tab {
			case "all", "mentions", "threads", "reactions":
			default:
				return fmt.Errorf("unknown tab %q (use all, mentions, threads, or reactions)", tab)
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
			workspaceURL := strings.TrimRight(authResp.URL, "/")

			// activity.feed only answers on the workspace domain.
			form := url.Values{
				"limit":             {strconv.Itoa(limit)},
				"types":             {feed.TypesForTab(tab)},
				"mode":              {"priority_reads_and_unreads_v1"},
				"archive_only":      {"false"},
				"snooze_only":       {"false"},
				"unread_only":       {"false"},
				"priority_only":     {"false"},
				"is_activity_inbox": {"false"},
			}
			env, err := client.Call(ctx, "activity.feed", api.CallOptions{
				Form:    form,
				BaseURL: workspaceURL + "/api",
			})
			if err != nil {
				return a.fail("fetch activity: %v", err)
			}
			var parsed struct {
				Items []map[string]any `json:"items"`
			}
			if err := env.Decode(&parsed); err != nil {
				return a.fail("decode activity: %v", err)
			}

			enterpriseID := authResp.EnterpriseID
			if enterpriseID == "" {
				enterpriseID = authResp.TeamID
			}
			enricher := feed.NewEnricher(logger.Service("feed"), client, a.cfg.API.EdgeBaseURL)
			items := enricher.Enrich(ctx, parsed.Items, enterpriseID)

			return a.formatter.Activity(items, tab)
		},
	}
	cmd.Flags().StringVarP(&tab, "tab", "t", "all", "activity tab (all, mentions, threads, reactions)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum number of items")
	return cmd
}
