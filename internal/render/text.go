package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/dms"
	"github.com/slackerhq/slacker/internal/reminders"
)

// TextFormatter writes human-readable output.
type TextFormatter struct {
	out io.Writer
}

func (f *TextFormatter) AuthTest(resp *slack.AuthTestResponse, authFile string) error {
	if authFile != "" {
		fmt.Fprintf(f.out, "Testing authentication from %s...\n\n", authFile)
	}
	fmt.Fprintln(f.out, "Authentication successful!")
	fmt.Fprintln(f.out)
	fmt.Fprintf(f.out, "  User:      %s\n", resp.User)
	fmt.Fprintf(f.out, "  User ID:   %s\n", resp.UserID)
	fmt.Fprintf(f.out, "  Team:      %s\n", resp.Team)
	fmt.Fprintf(f.out, "  Team ID:   %s\n", resp.TeamID)
	fmt.Fprintf(f.out, "  URL:       %s\n", resp.URL)
	return nil
}

func (f *TextFormatter) Activity(items []map[string]any, tab string) error {
	if len(items) == 0 {
		fmt.Fprintf(f.out, "No activity in the %s tab.\n", tab)
		return nil
	}
	fmt.Fprintf(f.out, "Activity (%d items):\n\n", len(items))
	for _, item := range items {
		f.activityItem(item)
	}
	return nil
}

func (f *TextFormatter) activityItem(item map[string]any) {
	itemType := "unknown"
	if inner, ok := item["item"].(map[string]any); ok {
		if t, ok := inner["type"].(string); ok {
			itemType = t
		}
	}
	channel := stringField(item, "channel_name")

	header := fmt.Sprintf("[%s] %s", shortType(itemType), channelLabel(channel))
	if username := stringField(item, "username"); username != "" {
		if itemType == "message_reaction" {
			header += fmt.Sprintf(" @%s reacted :%s:", username, stringField(item, "emoji"))
		} else {
			header += " @" + username
		}
	}
	fmt.Fprintln(f.out, header)

	if text, ok := item["message_text"].(string); ok && text != "" {
		fmt.Fprintf(f.out, "  %s\n", preview(text, 200))
	}
	fmt.Fprintln(f.out)
}

func (f *TextFormatter) Reminders(items []reminders.Item, counts map[string]int) error {
	if len(items) == 0 {
		fmt.Fprintln(f.out, "No saved items found.")
		return nil
	}
	fmt.Fprintf(f.out, "Found %d saved items:\n\n", len(items))
	for _, item := range items {
		if item.Type == "reminder" {
			fmt.Fprintf(f.out, "[%s] Reminder: %s\n", item.State, item.Text)
			fmt.Fprintf(f.out, "  Due: %s\n\n", item.DueDate)
			continue
		}
		fmt.Fprintf(f.out, "[%s] Saved message in #%s\n", item.State, item.ChannelName)
		fmt.Fprintf(f.out, "  Date: %s\n", item.Date)
		if item.Message != "" {
			fmt.Fprintf(f.out, "  Message: %s\n", item.Message)
		}
		fmt.Fprintf(f.out, "  Link: %s\n\n", item.Link)
	}
	fmt.Fprintln(f.out, "Summary:")
	fmt.Fprintf(f.out, "  Total: %d\n", counts["total_count"])
	fmt.Fprintf(f.out, "  Uncompleted: %d\n", counts["uncompleted_count"])
	fmt.Fprintf(f.out, "  Overdue: %d\n", counts["uncompleted_overdue_count"])
	fmt.Fprintf(f.out, "  Completed: %d\n", counts["completed_count"])
	return nil
}

func (f *TextFormatter) DMs(result dms.Result) error {
	if len(result.DMs) == 0 && len(result.GroupDMs) == 0 {
		fmt.Fprintln(f.out, "No DMs found.")
		return nil
	}
	fmt.Fprintf(f.out, "DM activity (%d individual + %d group):\n\n",
		result.Counts["dms"], result.Counts["group_dms"])

	if len(result.DMs) > 0 {
		fmt.Fprintln(f.out, "Individual DMs:")
		for _, dm := range result.DMs {
			direction := "-> You"
			if !dm.FromYou {
				direction = "<- @" + dm.Username
			}
			text := preview(dm.Text, 80)
			if dm.HasFiles {
				text = "[file attachment]"
			}
			fmt.Fprintf(f.out, "  %s %s: %s\n", dm.Time, direction, text)
		}
		fmt.Fprintln(f.out)
	}

	if len(result.GroupDMs) > 0 {
		fmt.Fprintln(f.out, "Group DMs:")
		for _, dm := range result.GroupDMs {
			who := "You"
			if !dm.FromYou {
				who = "@" + dm.Username
			}
			fmt.Fprintf(f.out, "  %s %s: %s\n", dm.Time, who, preview(dm.Text, 80))
		}
	}
	return nil
}

func (f *TextFormatter) Raw(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// Not JSON after all; print as-is.
		fmt.Fprintln(f.out, string(raw))
		return nil
	}
	return writeJSON(f.out, v)
}

func (f *TextFormatter) Error(message string) {
	fmt.Fprintf(f.out, "Error: %s\n", message)
}

func stringField(item map[string]any, key string) string {
	s, _ := item[key].(string)
	return s
}

func channelLabel(channel string) string {
	if channel == "" || channel == "unknown" {
		return "(unknown channel)"
	}
	if strings.HasPrefix(channel, "@") {
		return channel
	}
	return "#" + channel
}

func shortType(itemType string) string {
	switch itemType {
	case "message_reaction":
		return "reaction"
	case "thread_v2":
		return "thread"
	case "at_user", "at_user_group", "at_channel", "at_everyone", "keyword":
		return "mention"
	}
	return itemType
}

func preview(text string, limit int) string {
	if text == "" {
		return "[no text]"
	}
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
