package feed

// GroupFallback is the bare handle substituted for a usergroup whose
// resolution failed; it renders as @team.
const GroupFallback = "team"

// Cache maps identifiers to resolved display names, scoped to a single
// enrichment invocation. Entries are write-once: identifier sets are
// deduplicated before dispatch, so each key is written by exactly one lookup.
type Cache struct {
	Users    map[string]string
	Channels map[string]string
	Groups   map[string]string
}

// NewCache creates an empty per-invocation cache.
func NewCache() *Cache {
	return &Cache{
		Users:    make(map[string]string),
		Channels: make(map[string]string),
		Groups:   make(map[string]string),
	}
}

// MergeUsers records a round of resolved user names.
func (c *Cache) MergeUsers(names map[string]string) {
	for id, name := range names {
		c.Users[id] = name
	}
}

// MergeChannels records a round of resolved channel names.
func (c *Cache) MergeChannels(names map[string]string) {
	for id, name := range names {
		c.Channels[id] = name
	}
}

// MergeGroups records a round of resolved usergroup handles.
func (c *Cache) MergeGroups(handles map[string]string) {
	for id, handle := range handles {
		c.Groups[id] = handle
	}
}
