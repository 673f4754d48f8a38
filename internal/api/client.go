// Package api is the request/response transport to the chat service. One
// Client carries one credential pair and one pooled HTTP transport and is safe
// for any number of concurrent calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/auth"
)

// CallOptions shapes a single API call. Method defaults to GET, or POST when a
// JSON or form body is present. BaseURL overrides the client's default base
// (used for workspace-scoped and edge endpoints).
type CallOptions struct {
	Method  string
	Params  url.Values
	JSON    any
	Form    url.Values
	BaseURL string
}

// Envelope is a parsed API response: the ok/error pair plus the raw body for
// typed decoding.
type Envelope struct {
	OK        bool
	ErrorCode string
	Raw       json.RawMessage
}

// Decode unmarshals the raw response body into v.
func (e Envelope) Decode(v any) error {
	if len(e.Raw) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(e.Raw, v)
}

// Client issues API calls with a shared token and session cookie.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      auth.Credentials
	logger     *slog.Logger
}

// NewClient creates a Client for the given credential pair. baseURL defaults
// to the public API base when empty.
func NewClient(log *slog.Logger, creds auth.Credentials, baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://slack.com/api"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		logger:     log.With(slog.String("service", "api")),
	}
}

// Call invokes endpoint and returns the parsed envelope. An ok:false answer
// returns the envelope together with an *APIError; connection-level failures
// return a *TransportError.
func (c *Client) Call(ctx context.Context, endpoint string, opts CallOptions) (Envelope, error) {
	base := c.baseURL
	if strings.TrimSpace(opts.BaseURL) != "" {
		base = strings.TrimRight(opts.BaseURL, "/")
	}
	callURL := base + "/" + strings.TrimLeft(endpoint, "/")

	method := opts.Method
	if method == "" {
		if opts.JSON != nil || len(opts.Form) > 0 {
			method = http.MethodPost
		} else {
			method = http.MethodGet
		}
	}

	var body io.Reader
	contentType := ""
	switch {
	case opts.JSON != nil:
		payload, err := json.Marshal(opts.JSON)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	case len(opts.Form) > 0:
		body = strings.NewReader(opts.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	if len(opts.Params) > 0 {
		callURL += "?" + opts.Params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, callURL, body)
	if err != nil {
		return Envelope{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	req.Header.Set("Cookie", "d="+c.creds.Cookie)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Envelope{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close response body failed", slog.Any("error", err))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Envelope{}, &TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var status struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return Envelope{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	env := Envelope{OK: status.OK, ErrorCode: status.Error, Raw: raw}
	if !status.OK {
		return env, &APIError{Endpoint: endpoint, Code: status.Error}
	}
	return env, nil
}

// AuthTest verifies the credential pair and returns the authenticated identity.
func (c *Client) AuthTest(ctx context.Context) (slack.AuthTestResponse, error) {
	var resp slack.AuthTestResponse
	env, err := c.Call(ctx, "auth.test", CallOptions{})
	if err != nil {
		return resp, err
	}
	if err := env.Decode(&resp); err != nil {
		return resp, &TransportError{Endpoint: "auth.test", Err: err}
	}
	return resp, nil
}
