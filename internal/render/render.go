// Package render formats command results for the terminal, either as
// human-readable text or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/dms"
	"github.com/slackerhq/slacker/internal/reminders"
)

// Formatter renders command results to an output stream. Every command
// produces its result through one of these methods so that the text and
// JSON renditions stay in lockstep.
type Formatter interface {
	AuthTest(resp *slack.AuthTestResponse, authFile string) error
	Activity(items []map[string]any, tab string) error
	Reminders(items []reminders.Item, counts map[string]int) error
	DMs(result dms.Result) error
	Raw(raw json.RawMessage) error
	Error(message string)
}

// New returns the formatter for the given output format ("text" or "json").
func New(format string, out io.Writer) (Formatter, error) {
	switch format {
	case "text":
		return &TextFormatter{out: out}, nil
	case "json":
		return &JSONFormatter{out: out}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
