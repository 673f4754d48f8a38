package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/slackerhq/slacker/internal/auth"
)

func newLoginCommand(a *app) *cobra.Command {
	var setDefault bool

	cmd := &cobra.Command{
		Use:   "login [workspace-url]",
		Short: "Store Slack credentials for a workspace",
		Long: "Save a user token (xoxc-...) and browser session cookie (xoxd-...) for a workspace.\n" +
			"Copy both from your browser's developer tools while signed in to Slack:\n" +
			"the token from a request to /api/ and the cookie named \"d\".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceURL := ""
			if len(args) == 1 {
				var err error
				workspaceURL, err = normalizeWorkspaceURL(args[0])
				if err != nil {
					return err
				}
			}

			stdin := bufio.NewReader(os.Stdin)
			token, err := readSecret(stdin, "Token (xoxc-...): ")
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			cookie, err := readSecret(stdin, "Cookie d (xoxd-...): ")
			if err != nil {
				return fmt.Errorf("read cookie: %w", err)
			}
			if token == "" || cookie == "" {
				return errors.New("both token and cookie are required")
			}

			// Verify before saving so a bad paste never clobbers working
			// credentials.
			client := a.clientFor(auth.Credentials{Token: token, Cookie: cookie})
			resp, err := client.AuthTest(cmd.Context())
			if err != nil {
				return a.fail("credential check failed: %v", err)
			}

			file, err := auth.Load(a.authFile)
			if err != nil && !errors.Is(err, auth.ErrNoCredentials) {
				return err
			}
			if file.Teams == nil {
				file.Teams = map[string]auth.TeamEntry{}
			}
			if workspaceURL == "" {
				workspaceURL = strings.TrimRight(resp.URL, "/")
			}
			file.Cookie = cookie
			file.Teams[resp.Team] = auth.TeamEntry{Token: token, URL: workspaceURL}
			if setDefault || file.DefaultTeam == "" {
				file.DefaultTeam = resp.Team
			}
			if err := auth.Save(file, a.authFile); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Saved credentials for %s (%s) to %s\n", resp.Team, resp.User, a.authFile)
			fmt.Fprintln(a.out, "Test with: slacker whoami")
			return nil
		},
	}
	cmd.Flags().BoolVar(&setDefault, "set-default", false, "make this the default team")
	return cmd
}

func normalizeWorkspaceURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	if !strings.Contains(url, ".slack.com") {
		return "", fmt.Errorf("workspace URL must be a *.slack.com address, got %q", raw)
	}
	return strings.TrimRight(url, "/"), nil
}

// readSecret prompts on stderr and reads a value without echo when stdin is a
// terminal, falling back to a plain line read when it is piped.
func readSecret(stdin *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
