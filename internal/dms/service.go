// Package dms lists direct message conversations since a given cutoff.
package dms

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/feed"
)

// Message is one DM conversation's latest message.
type Message struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	FromYou  bool   `json:"from_you"`
	Username string `json:"username"`
	Text     string `json:"text"`
	HasFiles bool   `json:"has_files,omitempty"`
}

// Result is the DM listing: individual and group conversations plus counts.
type Result struct {
	DMs      []Message      `json:"dms"`
	GroupDMs []Message      `json:"group_dms"`
	Counts   map[string]int `json:"counts"`
}

type conversationEntry struct {
	ID      string        `json:"id"`
	Message slack.Message `json:"message"`
}

// Service lists DM conversations, resolving usernames through the shared
// resolver so repeated senders cost one lookup.
type Service struct {
	gw       feed.Gateway
	resolver *feed.Resolver
	logger   *slog.Logger
}

// NewService creates a DMs service.
func NewService(log *slog.Logger, gw feed.Gateway, resolver *feed.Resolver) *Service {
	return &Service{
		gw:       gw,
		resolver: resolver,
		logger:   log.With(slog.String("service", "dms")),
	}
}

// List returns DM and group DM conversations whose latest message is at or
// after since. ownUserID marks messages sent by the authenticated user.
func (s *Service) List(ctx context.Context, since time.Time, ownUserID string) (Result, error) {
	env, err := s.gw.Call(ctx, "client.dms", api.CallOptions{
		JSON: map[string]any{
			"count":           250,
			"include_closed":  true,
			"include_channel": true,
			"exclude_bots":    true,
			"priority_mode":   "priority",
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("list dms: %w", err)
	}
	var parsed struct {
		IMs   []conversationEntry `json:"ims"`
		MPIMs []conversationEntry `json:"mpims"`
	}
	if err := env.Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("decode dms: %w", err)
	}

	sinceTS := float64(since.Unix())
	ims := filterSince(parsed.IMs, sinceTS)
	mpims := filterSince(parsed.MPIMs, sinceTS)

	userIDs := feed.NewSet()
	for _, entry := range append(append([]conversationEntry{}, ims...), mpims...) {
		if entry.Message.User != "" {
			userIDs.Add(entry.Message.User)
		}
	}
	usernames := s.resolver.UserNames(ctx, userIDs)

	result := Result{
		DMs:      buildMessages(ims, usernames, ownUserID, true),
		GroupDMs: buildMessages(mpims, usernames, ownUserID, false),
	}
	result.Counts = map[string]int{
		"dms":       len(result.DMs),
		"group_dms": len(result.GroupDMs),
	}
	return result, nil
}

func filterSince(entries []conversationEntry, sinceTS float64) []conversationEntry {
	out := make([]conversationEntry, 0, len(entries))
	for _, entry := range entries {
		if messageTS(entry.Message) >= sinceTS {
			out = append(out, entry)
		}
	}
	return out
}

func buildMessages(entries []conversationEntry, usernames map[string]string, ownUserID string, withFiles bool) []Message {
	out := make([]Message, 0, len(entries))
	for _, entry := range entries {
		msg := Message{
			ID:       entry.ID,
			Time:     time.Unix(int64(messageTS(entry.Message)), 0).Format("15:04"),
			FromYou:  entry.Message.User != "" && entry.Message.User == ownUserID,
			Username: usernames[entry.Message.User],
			Text:     entry.Message.Text,
		}
		if withFiles {
			msg.HasFiles = len(entry.Message.Files) > 0
		}
		out = append(out, msg)
	}
	return out
}

func messageTS(msg slack.Message) float64 {
	ts, err := strconv.ParseFloat(msg.Timestamp, 64)
	if err != nil {
		return 0
	}
	return ts
}

// ParseSince parses the --since expression: "today", "yesterday", a Go
// duration (e.g. "36h"), or a date ("2006-01-02" or RFC 3339). Natural
// language expressions are not supported.
func ParseSince(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(strings.ToLower(expr))
	switch expr {
	case "", "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "yesterday":
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return midnight.AddDate(0, 0, -1), nil
	}
	if d, err := time.ParseDuration(expr); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", expr, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time expression %q (try \"yesterday\", \"36h\", or \"2006-01-02\")", expr)
}
