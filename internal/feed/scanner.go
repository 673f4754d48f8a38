package feed

import "regexp"

// Identifier lexical shapes. The inline token syntax is load-bearing: a
// mismatch means resolution silently no-ops, so these are kept exact.
var (
	userIDPattern       = regexp.MustCompile(`^U[A-Z0-9]+$`)
	userMentionPattern  = regexp.MustCompile(`<@(U[A-Z0-9]+)>`)
	groupMentionPattern = regexp.MustCompile(`<!subteam\^(S[A-Z0-9]+)(?:\|[^>]*)?>`)
)

// Field names whose string values are treated as user identifiers when they
// match the user lexical shape.
var userIDFields = map[string]struct{}{
	"user":           {},
	"user_id":        {},
	"author_user_id": {},
	"creator":        {},
}

// ScanDocument walks a parsed JSON document of arbitrary depth and collects
// the distinct user and usergroup identifiers it references, both as
// well-known structural fields and as inline mention tokens in string values.
// Values failing the lexical shape check are skipped, never errors.
func ScanDocument(doc any, users, groups Set) {
	switch value := doc.(type) {
	case map[string]any:
		for key, nested := range value {
			if str, ok := nested.(string); ok {
				if _, known := userIDFields[key]; known && userIDPattern.MatchString(str) {
					users.Add(str)
				}
			}
			ScanDocument(nested, users, groups)
		}
	case []any:
		for _, nested := range value {
			ScanDocument(nested, users, groups)
		}
	case string:
		ScanText(value, users, groups)
	default:
		// numbers, booleans and nulls carry no identifiers
	}
}

// ScanText collects the user and usergroup identifiers referenced by inline
// mention tokens in text.
func ScanText(text string, users, groups Set) {
	for _, match := range userMentionPattern.FindAllStringSubmatch(text, -1) {
		users.Add(match[1])
	}
	for _, match := range groupMentionPattern.FindAllStringSubmatch(text, -1) {
		groups.Add(match[1])
	}
}
