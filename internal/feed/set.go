package feed

import "sort"

// Set is a deduplicated collection of entity identifiers of one kind.
type Set map[string]struct{}

// NewSet creates a Set seeded with the given identifiers.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Values returns the identifiers in sorted order for deterministic dispatch.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Subtract removes every identifier present in other.
func (s Set) Subtract(other Set) {
	for id := range other {
		delete(s, id)
	}
}
