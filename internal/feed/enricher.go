// Package feed enriches the raw activity feed: it resolves every opaque
// user, channel and usergroup identifier a feed item references into
// human-readable form and rewrites the mentions embedded in message bodies.
package feed

import (
	"context"
	"log/slog"
	"maps"
	"sync"
)

// Feed item types whose acting user is the message author.
var mentionFamily = map[string]struct{}{
	"at_user":       {},
	"at_user_group": {},
	"at_channel":    {},
	"at_everyone":   {},
	"keyword":       {},
}

// TypesForTab returns the comma-separated feed item types for an activity tab
// (all, mentions, threads, reactions).
func TypesForTab(tab string) string {
	switch tab {
	case "mentions":
		return "at_user,at_user_group,at_channel,at_everyone,keyword,list_user_mentioned"
	case "threads":
		return "thread_v2"
	case "reactions":
		return "message_reaction"
	default:
		return "thread_v2,message_reaction,internal_channel_invite,list_record_edited," +
			"bot_dm_bundle,at_user,at_user_group,at_channel,at_everyone,keyword," +
			"list_record_assigned,list_user_mentioned,list_todo_notification," +
			"list_approval_request,list_approval_reviewed,unjoined_channel_mention," +
			"external_channel_invite,external_dm_invite"
	}
}

// coordinate addresses one message by channel and timestamp.
type coordinate struct {
	channel string
	ts      string
}

// Enricher runs the fixed two-round enrichment pipeline over a feed.
type Enricher struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewEnricher creates an Enricher over the given gateway.
func NewEnricher(log *slog.Logger, gw Gateway, edgeBaseURL string) *Enricher {
	return &Enricher{
		resolver: NewResolver(log, gw, edgeBaseURL),
		logger:   log.With(slog.String("service", "enricher")),
	}
}

// Enrich produces a copy of items where each item additionally carries its
// resolved channel name, acting username, cleaned message text and (for
// reactions) emoji name. Output order always equals input order; individual
// lookup failures degrade to fallback labels and never abort the batch.
// enterpriseID keys the batch usergroup endpoint and may be empty.
func (e *Enricher) Enrich(ctx context.Context, items []map[string]any, enterpriseID string) []map[string]any {
	userIDs := NewSet()
	channelIDs := NewSet()
	channelByItem := make(map[int]string)
	coordByItem := make(map[int]coordinate)
	actorByItem := make(map[int]string)
	var coords []coordinate
	seen := make(map[coordinate]struct{})

	// Pass 1: extract coordinates and acting users, keyed by item index so
	// results can be redistributed without re-fetching shared coordinates.
	for idx, item := range items {
		data := nestedMap(item, "item")
		itemType, _ := data["type"].(string)

		var channelID, ts string
		if itemType == "thread_v2" {
			entry := nestedMap(data, "bundle_info", "payload", "thread_entry")
			channelID, _ = entry["channel_id"].(string)
			ts, _ = entry["latest_ts"].(string)
		} else {
			message := nestedMap(data, "message")
			channelID, _ = message["channel"].(string)
			ts, _ = message["ts"].(string)
		}
		if channelID != "" {
			channelIDs.Add(channelID)
			channelByItem[idx] = channelID
		}
		if channelID != "" && ts != "" {
			c := coordinate{channel: channelID, ts: ts}
			coordByItem[idx] = c
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				coords = append(coords, c)
			}
		}

		switch {
		case itemType == "message_reaction":
			if user, _ := nestedMap(data, "reaction")["user"].(string); user != "" {
				userIDs.Add(user)
				actorByItem[idx] = user
			}
		default:
			if _, ok := mentionFamily[itemType]; ok {
				if user, _ := nestedMap(data, "message")["author_user_id"].(string); user != "" {
					userIDs.Add(user)
					actorByItem[idx] = user
				}
			}
		}
	}

	// Round 1: resolve visible users and channels and fetch message bodies,
	// all concurrently; nothing proceeds until the whole round completes.
	cache := NewCache()
	texts := make(map[coordinate]string, len(coords))
	var textsMu sync.Mutex
	var round1 sync.WaitGroup

	round1.Add(2)
	go func() {
		defer round1.Done()
		cache.MergeUsers(e.resolver.UserNames(ctx, userIDs))
	}()
	go func() {
		defer round1.Done()
		cache.MergeChannels(e.resolver.ChannelNames(ctx, channelIDs))
	}()
	for _, c := range coords {
		round1.Add(1)
		go func(c coordinate) {
			defer round1.Done()
			if text, ok := e.resolver.MessageText(ctx, c.channel, c.ts); ok {
				textsMu.Lock()
				texts[c] = text
				textsMu.Unlock()
			}
		}(c)
	}
	round1.Wait()

	// Round 2: identifiers only reachable through message text. Exactly one
	// extra round; identifiers first revealed by round-two lookups stay
	// unresolved and fall back to their raw form.
	extraUsers := NewSet()
	groupIDs := NewSet()
	for _, text := range texts {
		ScanText(text, extraUsers, groupIDs)
	}
	extraUsers.Subtract(userIDs)

	var round2 sync.WaitGroup
	round2.Add(2)
	var extraNames, groupHandles map[string]string
	go func() {
		defer round2.Done()
		extraNames = e.resolver.UserNames(ctx, extraUsers)
	}()
	go func() {
		defer round2.Done()
		groupHandles = e.resolver.UserGroupHandles(ctx, groupIDs, enterpriseID)
	}()
	round2.Wait()
	cache.MergeUsers(extraNames)
	cache.MergeGroups(groupHandles)

	// Merge back by recorded index; input order is preserved regardless of
	// lookup completion order.
	out := make([]map[string]any, 0, len(items))
	for idx, item := range items {
		enriched := make(map[string]any, len(item)+4)
		maps.Copy(enriched, item)

		if channelID, ok := channelByItem[idx]; ok {
			if name, resolved := cache.Channels[channelID]; resolved {
				enriched["channel_name"] = name
			} else {
				enriched["channel_name"] = channelID
			}
		} else {
			enriched["channel_name"] = "unknown"
		}

		if c, ok := coordByItem[idx]; ok {
			if text, fetched := texts[c]; fetched {
				enriched["message_text"] = CleanText(text, cache)
			} else {
				enriched["message_text"] = ""
			}
		}

		if actor, ok := actorByItem[idx]; ok {
			if name, resolved := cache.Users[actor]; resolved {
				enriched["username"] = name
			} else {
				enriched["username"] = actor
			}
		}

		data := nestedMap(item, "item")
		if itemType, _ := data["type"].(string); itemType == "message_reaction" {
			if emoji, _ := nestedMap(data, "reaction")["name"].(string); emoji != "" {
				enriched["emoji"] = emoji
			} else {
				enriched["emoji"] = "unknown"
			}
		}

		out = append(out, enriched)
	}
	return out
}

// nestedMap descends through nested object fields, returning an empty map
// when any step is missing or not an object.
func nestedMap(m map[string]any, keys ...string) map[string]any {
	current := m
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		current = next
	}
	return current
}
