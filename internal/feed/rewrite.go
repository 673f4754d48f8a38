package feed

import "regexp"

var (
	broadcastPattern = regexp.MustCompile(`<!(channel|here|everyone)(?:\|[^>]*)?>`)
	linkPattern      = regexp.MustCompile(`<(https?://[^>|]+)(?:\|([^>]*))?>`)
)

// RewriteMentions replaces every recognized mention token in text with
// @<resolved-name>. Unresolved users fall back to their raw identifier and
// unresolved usergroups to the generic team placeholder. Rewriting is
// idempotent: resolved text contains no token syntax, so a second pass finds
// nothing to replace.
func RewriteMentions(text string, users, groups map[string]string) string {
	text = userMentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		id := userMentionPattern.FindStringSubmatch(token)[1]
		if name, ok := users[id]; ok && name != "" {
			return "@" + name
		}
		return "@" + id
	})
	text = groupMentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		id := groupMentionPattern.FindStringSubmatch(token)[1]
		if handle, ok := groups[id]; ok && handle != "" {
			return "@" + handle
		}
		return "@" + GroupFallback
	})
	return text
}

// NormalizeMarkup rewrites platform markup unrelated to identifier
// resolution: broadcast tokens become @channel/@here/@everyone and link
// syntax collapses to the label, or the bare URL when no label is present.
// It is idempotent and order-independent with respect to RewriteMentions.
func NormalizeMarkup(text string) string {
	text = broadcastPattern.ReplaceAllString(text, "@$1")
	text = linkPattern.ReplaceAllStringFunc(text, func(token string) string {
		match := linkPattern.FindStringSubmatch(token)
		if match[2] != "" {
			return match[2]
		}
		return match[1]
	})
	return text
}

// CleanText applies mention rewriting and markup normalization to a fetched
// message body.
func CleanText(text string, cache *Cache) string {
	return NormalizeMarkup(RewriteMentions(text, cache.Users, cache.Groups))
}
