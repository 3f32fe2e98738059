package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Wildcard matches any status in a transition key.
const Wildcard = "*"

// TransitionKey formats a "from -> to" key.
func TransitionKey(from, to string) string {
	return from + " -> " + to
}

// ParseTransitionKey splits a "from -> to" key, tolerating any spacing
// around the arrow.
func ParseTransitionKey(key string) (from, to string, err error) {
	parts := strings.SplitN(key, "->", 2)
	if len(parts) != 2 {
		return strings.TrimSpace(key), "", fmt.Errorf("%w: %q", ErrMalformedTransitionKey, key)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// TransitionGraph is the adjacency list of legal status moves. The key ""
// lists the statuses an item may be created in.
type TransitionGraph struct {
	raw   map[string][]string
	edges map[string][]string
}

// NewTransitionGraph copies the configured adjacency list and indexes it by
// folded status.
func NewTransitionGraph(transitions map[string][]string) TransitionGraph {
	g := TransitionGraph{
		raw:   make(map[string][]string, len(transitions)),
		edges: make(map[string][]string, len(transitions)),
	}
	keys := make([]string, 0, len(transitions))
	for from := range transitions {
		keys = append(keys, from)
	}
	sort.Strings(keys)
	for _, from := range keys {
		to := copyStrings(transitions[from])
		g.raw[from] = to
		key := FoldStatus(from)
		g.edges[key] = dedupeStatuses(g.edges[key], to)
	}
	return g
}

// From returns the legal next statuses for a status, or an empty slice.
func (g TransitionGraph) From(status string) []string {
	to := g.edges[FoldStatus(status)]
	if to == nil {
		return []string{}
	}
	return copyStrings(to)
}

// All returns a copy of the configured adjacency list.
func (g TransitionGraph) All() map[string][]string {
	out := make(map[string][]string, len(g.raw))
	for from, to := range g.raw {
		out[from] = copyStrings(to)
	}
	return out
}

// Allows reports whether moving from one status to another is listed.
// Both sides must be non-empty.
func (g TransitionGraph) Allows(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	return containsStatus(g.edges[FoldStatus(from)], to)
}

// CreateStatuses returns the statuses listed under the "" key.
func (g TransitionGraph) CreateStatuses() ([]string, bool) {
	to, ok := g.edges[""]
	return copyStrings(to), ok
}
