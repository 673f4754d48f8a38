package render

import (
	"encoding/json"
	"io"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/dms"
	"github.com/slackerhq/slacker/internal/reminders"
)

// JSONFormatter writes machine-readable output, one indented document per
// command.
type JSONFormatter struct {
	out io.Writer
}

func (f *JSONFormatter) AuthTest(resp *slack.AuthTestResponse, _ string) error {
	return writeJSON(f.out, map[string]any{
		"ok":      true,
		"user":    resp.User,
		"user_id": resp.UserID,
		"team":    resp.Team,
		"team_id": resp.TeamID,
		"url":     resp.URL,
	})
}

func (f *JSONFormatter) Activity(items []map[string]any, tab string) error {
	return writeJSON(f.out, map[string]any{
		"tab":   tab,
		"items": items,
	})
}

func (f *JSONFormatter) Reminders(items []reminders.Item, counts map[string]int) error {
	return writeJSON(f.out, map[string]any{
		"items":  items,
		"counts": counts,
	})
}

func (f *JSONFormatter) DMs(result dms.Result) error {
	return writeJSON(f.out, result)
}

func (f *JSONFormatter) Raw(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return writeJSON(f.out, v)
}

func (f *JSONFormatter) Error(message string) {
	_ = writeJSON(f.out, map[string]string{"error": message})
}
