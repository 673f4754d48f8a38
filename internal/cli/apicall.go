package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slackerhq/slacker/internal/api"
)

func newAPICommand(a *app) *cobra.Command {
	var (
		data      string
		params    string
		method    string
		workspace bool
	)

	cmd := &cobra.Command{
		Use:   "api <endpoint>",
		Short: "Call an arbitrary API endpoint",
		Long: "Call any API endpoint with the stored credentials and print the raw\n" +
			"response, e.g. slacker api users.list -p '{\"limit\": 10}'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := api.CallOptions{}

			if method != "" {
				m := strings.ToUpper(method)
				if m != http.MethodGet && m != http.MethodPost {
					return fmt.Errorf("method must be GET or POST, got %q", method)
				}
				opts.Method = m
			}
			if data != "" {
				var body any
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("parse --data: %w", err)
				}
				opts.JSON = body
			}
			if params != "" {
				var m map[string]any
				if err := json.Unmarshal([]byte(params), &m); err != nil {
					return fmt.Errorf("parse --params: %w", err)
				}
				opts.Params = url.Values{}
				for key, value := range m {
					opts.Params.Set(key, fmt.Sprint(value))
				}
			}

			client, _, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if workspace {
				authResp, err := client.AuthTest(ctx)
				if err != nil {
					return a.fail("authentication failed: %v", err)
				}
				opts.BaseURL = strings.TrimRight(authResp.URL, "/") + "/api"
			}

			env, err := client.Call(ctx, args[0], opts)
			if err != nil {
				// An ok:false answer is still a result worth printing.
				var apiErr *api.APIError
				if !errors.As(err, &apiErr) {
					return a.fail("call %s: %v", args[0], err)
				}
			}
			return a.formatter.Raw(env.Raw)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body to send (implies POST)")
	cmd.Flags().StringVarP(&params, "params", "p", "", "JSON object of query parameters")
	cmd.Flags().StringVarP(&method, "method", "m", "", "HTTP method (default: POST with --data, GET otherwise)")
	cmd.Flags().BoolVarP(&workspace, "workspace", "w", false, "call the workspace domain instead of the public API host")
	return cmd
}
