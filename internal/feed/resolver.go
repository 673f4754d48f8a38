package feed

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/slack-go/slack"

	"github.com/slackerhq/slacker/internal/api"
)

// Gateway is the transport every lookup passes through. It must support
// concurrent outstanding calls against one shared credential pair.
type Gateway interface {
	Call(ctx context.Context, endpoint string, opts api.CallOptions) (api.Envelope, error)
}

// Resolver resolves entity identifiers to display names. Each batch is a
// scatter-gather: one lookup per unique identifier, all issued concurrently,
// all awaited before returning. A failed lookup degrades that identifier to
// its fallback label and never fails the batch.
type Resolver struct {
	gw          Gateway
	edgeBaseURL string
	logger      *slog.Logger
}

// NewResolver creates a Resolver over the given gateway. edgeBaseURL is the
// base for the batch usergroup endpoint.
func NewResolver(log *slog.Logger, gw Gateway, edgeBaseURL string) *Resolver {
	if strings.TrimSpace(edgeBaseURL) == "" {
		edgeBaseURL = "https://edgeapi.slack.com"
	}
	return &Resolver{
		gw:          gw,
		edgeBaseURL: strings.TrimRight(edgeBaseURL, "/"),
		logger:      log.With(slog.String("service", "resolver")),
	}
}

// UserNames resolves every identifier in ids to its username. A failed lookup
// maps the identifier to itself.
func (r *Resolver) UserNames(ctx context.Context, ids Set) map[string]string {
	ordered := ids.Values()
	results := make([]string, len(ordered))
	var wg sync.WaitGroup
	for i, id := range ordered {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = r.lookupUser(ctx, id)
		}(i, id)
	}
	wg.Wait()

	out := make(map[string]string, len(ordered))
	for i, id := range ordered {
		out[id] = results[i]
	}
	return out
}

func (r *Resolver) lookupUser(ctx context.Context, id string) string {
	env, err := r.gw.Call(ctx, "users.info", api.CallOptions{
		Params: url.Values{"user": {id}},
	})
	if err != nil {
		r.logger.Warn("user lookup failed", slog.String("user", id), slog.Any("error", err))
		return id
	}
	var parsed struct {
		User slack.User `json:"user"`
	}
	if err := env.Decode(&parsed); err != nil || parsed.User.Name == "" {
		return id
	}
	return parsed.User.Name
}

// ChannelNames resolves every identifier in ids to its channel name. A direct
// message channel resolves to @<other participant's username> via a chained
// user lookup. A failed lookup maps the identifier to itself.
func (r *Resolver) ChannelNames(ctx context.Context, ids Set) map[string]string {
	ordered := ids.Values()
	results := make([]string, len(ordered))
	var wg sync.WaitGroup
	for i, id := range ordered {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = r.lookupChannel(ctx, id)
		}(i, id)
	}
	wg.Wait()

	out := make(map[string]string, len(ordered))
	for i, id := range ordered {
		out[id] = results[i]
	}
	return out
}

func (r *Resolver) lookupChannel(ctx context.Context, id string) string {
	env, err := r.gw.Call(ctx, "conversations.info", api.CallOptions{
		Params: url.Values{"channel": {id}},
	})
	if err != nil {
		r.logger.Warn("channel lookup failed", slog.String("channel", id), slog.Any("error", err))
		return id
	}
	var parsed struct {
		Channel slack.Channel `json:"channel"`
	}
	if err := env.Decode(&parsed); err != nil {
		return id
	}
	if parsed.Channel.IsIM && parsed.Channel.User != "" {
		if name := r.lookupUser(ctx, parsed.Channel.User); name != parsed.Channel.User {
			return "@" + name
		}
	}
	if parsed.Channel.Name != "" {
		return parsed.Channel.Name
	}
	return id
}

// UserGroupHandles resolves usergroup identifiers through the batch-oriented
// edge endpoint, one call for the whole set. When the batch call fails, or no
// enterprise ID is available, every identifier falls back to the generic
// placeholder handle.
func (r *Resolver) UserGroupHandles(ctx context.Context, ids Set, enterpriseID string) map[string]string {
	if len(ids) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(ids))
	for id := range ids {
		out[id] = GroupFallback
	}
	enterpriseID = strings.TrimSpace(enterpriseID)
	if enterpriseID == "" {
		r.logger.Warn("usergroup lookup skipped: no enterprise id")
		return out
	}

	env, err := r.gw.Call(ctx, "usergroups/info", api.CallOptions{
		BaseURL: r.edgeBaseURL + "/cache/" + enterpriseID,
		JSON:    map[string]any{"ids": ids.Values()},
	})
	if err != nil {
		r.logger.Warn("usergroup batch lookup failed", slog.Any("error", err))
		return out
	}
	var parsed struct {
		Results []struct {
			ID     string `json:"id"`
			Handle string `json:"handle"`
			Name   string `json:"name"`
		} `json:"results"`
	}
	if err := env.Decode(&parsed); err != nil {
		return out
	}
	for _, group := range parsed.Results {
		if !ids.Has(group.ID) {
			continue
		}
		switch {
		case group.Handle != "":
			out[group.ID] = group.Handle
		case group.Name != "":
			out[group.ID] = group.Name
		}
	}
	return out
}

// MessageText fetches the body of the message at (channel, ts). The second
// return is false when the fetch failed or no message exists there.
func (r *Resolver) MessageText(ctx context.Context, channel, ts string) (string, bool) {
	env, err := r.gw.Call(ctx, "conversations.history", api.CallOptions{
		Params: url.Values{
			"channel":   {channel},
			"latest":    {ts},
			"inclusive": {"true"},
			"limit":     {"1"},
		},
	})
	if err != nil {
		r.logger.Warn("message fetch failed",
			slog.String("channel", channel), slog.String("ts", ts), slog.Any("error", err))
		return "", false
	}
	var parsed struct {
		Messages []slack.Message `json:"messages"`
	}
	if err := env.Decode(&parsed); err != nil || len(parsed.Messages) == 0 {
		return "", false
	}
	message := parsed.Messages[0]
	text := message.Text
	if text == "" {
		text = BlocksText(message.Blocks)
	}
	return text, true
}

// BlocksText extracts the plain text runs from rich-text blocks; used when a
// message carries blocks but no text field.
func BlocksText(blocks slack.Blocks) string {
	var b strings.Builder
	for _, block := range blocks.BlockSet {
		richText, ok := block.(*slack.RichTextBlock)
		if !ok {
			continue
		}
		for _, element := range richText.Elements {
			section, ok := element.(*slack.RichTextSection)
			if !ok {
				continue
			}
			for _, sectionElement := range section.Elements {
				if textElement, ok := sectionElement.(*slack.RichTextSectionTextElement); ok {
					b.WriteString(textElement.Text)
				}
			}
		}
	}
	return b.String()
}
