package cli

import (
	"github.com/spf13/cobra"
)

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Test authentication and show user info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.AuthTest(cmd.Context())
			if err != nil {
				return a.fail("authentication failed: %v; your credentials may have expired, run 'slacker login' again", err)
			}
			return a.formatter.AuthTest(&resp, a.authFile)
		},
	}
}
