// Package reminders lists saved reminders and later items.
package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/feed"
)

// Item is one saved entry: either a reminder or a saved message.
type Item struct {
	Type         string  `json:"type"`
	State        string  `json:"state"`
	Text         string  `json:"text,omitempty"`
	DueDate      string  `json:"due_date,omitempty"`
	DueTimestamp int64   `json:"due_timestamp,omitempty"`
	ChannelID    string  `json:"channel_id,omitempty"`
	ChannelName  string  `json:"channel_name,omitempty"`
	Message      string  `json:"message,omitempty"`
	Date         string  `json:"date,omitempty"`
	Timestamp    float64 `json:"timestamp,omitempty"`
	Link         string  `json:"link,omitempty"`
}

type savedItem struct {
	ItemType    string       `json:"item_type"`
	State       string       `json:"state"`
	Description slack.Blocks `json:"description"`
	DateDue     int64        `json:"date_due"`
	ItemID      string       `json:"item_id"`
	Ts          string       `json:"ts"`
}

// Service lists saved items, resolving channel names and message bodies
// through the shared resolver.
type Service struct {
	gw       feed.Gateway
	resolver *feed.Resolver
	logger   *slog.Logger
}

// NewService creates a reminders service.
func NewService(log *slog.Logger, gw feed.Gateway, resolver *feed.Resolver) *Service {
	return &Service{
		gw:       gw,
		resolver: resolver,
		logger:   log.With(slog.String("service", "reminders")),
	}
}

// List returns saved items and the service-side counts. workspaceURL is used
// to build archive permalinks for saved messages.
func (s *Service) List(ctx context.Context, limit int, remindersOnly bool, workspaceURL string) ([]Item, map[string]int, error) {
	env, err := s.gw.Call(ctx, "saved.list", api.CallOptions{
		JSON: map[string]any{
			"filter":             "saved",
			"limit":              limit,
			"include_tombstones": true,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list saved items: %w", err)
	}
	var parsed struct {
		SavedItems []savedItem    `json:"saved_items"`
		Counts     map[string]int `json:"counts"`
	}
	if err := env.Decode(&parsed); err != nil {
		return nil, nil, fmt.Errorf("decode saved items: %w", err)
	}

	saved := parsed.SavedItems
	if remindersOnly {
		filtered := saved[:0]
		for _, item := range saved {
			if item.ItemType == "reminder" {
				filtered = append(filtered, item)
			}
		}
		saved = filtered
	}

	// One resolution round for all channels, one fetch per message item.
	channelIDs := feed.NewSet()
	for _, item := range saved {
		if item.ItemType != "reminder" && item.ItemID != "" {
			channelIDs.Add(item.ItemID)
		}
	}
	channelNames := s.resolver.ChannelNames(ctx, channelIDs)

	texts := make([]string, len(saved))
	var wg sync.WaitGroup
	for i, item := range saved {
		if item.ItemType == "reminder" || item.ItemID == "" || item.Ts == "" {
			continue
		}
		wg.Add(1)
		go func(i int, channel, ts string) {
			defer wg.Done()
			if text, ok := s.resolver.MessageText(ctx, channel, ts); ok {
				texts[i] = text
			}
		}(i, item.ItemID, item.Ts)
	}
	wg.Wait()

	workspaceURL = strings.TrimRight(workspaceURL, "/")
	out := make([]Item, 0, len(saved))
	for i, item := range saved {
		if item.ItemType == "reminder" {
			out = append(out, Item{
				Type:         "reminder",
				State:        item.State,
				Text:         reminderText(item.Description),
				DueDate:      time.Unix(item.DateDue, 0).Format("2006-01-02 15:04"),
				DueTimestamp: item.DateDue,
			})
			continue
		}

		entry := Item{
			Type:        "message",
			State:       item.State,
			ChannelID:   item.ItemID,
			ChannelName: channelNames[item.ItemID],
			Message:     texts[i],
			Link:        messageLink(workspaceURL, item.ItemID, item.Ts),
		}
		if ts, err := strconv.ParseFloat(item.Ts, 64); err == nil {
			entry.Timestamp = ts
			entry.Date = time.Unix(int64(ts), 0).Format("2006-01-02 15:04")
		} else {
			entry.Date = item.Ts
		}
		out = append(out, entry)
	}
	return out, parsed.Counts, nil
}

func reminderText(description slack.Blocks) string {
	if text := feed.BlocksText(description); text != "" {
		return text
	}
	return "Unknown"
}

func messageLink(workspaceURL, channelID, ts string) string {
	if workspaceURL == "" {
		workspaceURL = "https://slack.com"
	}
	return workspaceURL + "/archives/" + channelID + "/p" + strings.ReplaceAll(ts, ".", "")
}
