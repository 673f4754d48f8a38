package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/api"
)

func newRemindCommand(a *app) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "remind <text>",
		Short: "Create a reminder",
		Long: "Create a reminder through Slack's /remind command. The text is passed\n" +
			"verbatim and Slack does the parsing, e.g. \"me to call mom tomorrow\".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			text := strings.Join(args, " ")

			target := channel
			if target == "" {
				// Slack routes a bare user ID to that user's own-notes DM.
				authResp, err := client.AuthTest(ctx)
				if err != nil {
					return a.fail("authentication failed: %v", err)
				}
				target = authResp.UserID
			}

			payload := map[string]any{
				"command": "/remind",
				"disp":    "/remind",
				"blocks": []map[string]any{{
					"type": "rich_text",
					"elements": []map[string]any{{
						"type": "rich_text_section",
						"elements": []map[string]any{{
							"type": "text",
							"text": text,
						}},
					}},
				}},
				"channel": target,
			}
			if _, err := client.Call(ctx, "chat.command", api.CallOptions{JSON: payload}); err != nil {
				return a.fail("create reminder: %v", err)
			}
			fmt.Fprintf(a.out, "Reminder created: %s\n", text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel to create the reminder in (default: your own-notes DM)")
	return cmd
}
