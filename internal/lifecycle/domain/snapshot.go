package domain

import (
	"sort"
	"strings"
)

// MapPair names an ordered pair of lifecycles.
type MapPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is an immutable registry of lifecycles built by Rebuild. It
// always contains the global lifecycle under "".
type Snapshot struct {
	lifecycles map[string]*Lifecycle
	names      []string
	maps       map[string]map[string]string
	rights     map[string]string
}

// Lifecycle returns a lifecycle by name; "" returns the global lifecycle.
func (s *Snapshot) Lifecycle(name string) (*Lifecycle, bool) {
	l, ok := s.lifecycles[name]
	return l, ok
}

// Global returns the synthetic union lifecycle.
func (s *Snapshot) Global() *Lifecycle {
	return s.lifecycles[""]
}

// Names returns configured lifecycle names in configuration order,
// optionally restricted to the given types.
func (s *Snapshot) Names(types ...string) []string {
	if len(types) == 0 {
		return copyStrings(s.names)
	}
	var out []string
	for _, name := range s.names {
		for _, t := range types {
			if s.lifecycles[name].typ == t {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Len returns the number of configured lifecycles, excluding the global one.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// Map returns a copy of the status map between two lifecycles.
func (s *Snapshot) Map(from, to string) (map[string]string, bool) {
	m, ok := s.maps[TransitionKey(from, to)]
	return copyStringMap(m), ok
}

// HasMap reports whether a map exists between two lifecycles and has at
// least one non-empty target.
func (s *Snapshot) HasMap(from, to string) bool {
	for _, target := range s.maps[TransitionKey(from, to)] {
		if target != "" {
			return true
		}
	}
	return false
}

// MapStatus translates a status of lifecycle from into lifecycle to.
func (s *Snapshot) MapStatus(from, to, status string) (string, bool) {
	target := s.maps[TransitionKey(from, to)][FoldStatus(status)]
	return target, target != ""
}

// UnmappedLifecyclePairs returns every ordered pair of distinct lifecycles
// of the same type that lacks a usable map.
func (s *Snapshot) UnmappedLifecyclePairs() []MapPair {
	var out []MapPair
	for _, from := range s.names {
		for _, to := range s.names {
			if from == to || s.lifecycles[from].typ != s.lifecycles[to].typ {
				continue
			}
			if !s.HasMap(from, to) {
				out = append(out, MapPair{From: from, To: to})
			}
		}
	}
	return out
}

// RightsDescription returns a description of every right named by any
// lifecycle's right table.
func (s *Snapshot) RightsDescription() map[string]string {
	return copyStringMap(s.rights)
}

// ForLocalization returns every user-facing string: global status names,
// action labels and right descriptions, without case-insensitive duplicates.
func (s *Snapshot) ForLocalization() []string {
	var out []string
	out = append(out, s.Global().Valid()...)
	for _, name := range s.names {
		out = append(out, s.lifecycles[name].actions.Labels()...)
	}
	rights := make([]string, 0, len(s.rights))
	for right := range s.rights {
		rights = append(rights, right)
	}
	sort.Strings(rights)
	for _, right := range rights {
		out = append(out, s.rights[right])
	}
	return dedupeStatuses(out)
}

type transitionSides struct {
	from []string
	to   []string
}

func describeRights(lifecycles []*Lifecycle) map[string]string {
	grouped := make(map[string]*transitionSides)
	var order []string
	for _, l := range lifecycles {
		for _, key := range l.rights.Keys() {
			right := l.rights.Right(key)
			if right == "" {
				continue
			}
			from, to := l.rights.Sides(key)
			from, to = l.CanonicalCase(from), l.CanonicalCase(to)
			sides, ok := grouped[right]
			if !ok {
				sides = &transitionSides{}
				grouped[right] = sides
				order = append(order, right)
			}
			sides.from = append(sides.from, from)
			sides.to = append(sides.to, to)
		}
	}

	out := make(map[string]string, len(grouped))
	for _, right := range order {
		sides := grouped[right]
		var b strings.Builder
		b.WriteString("Change status")
		if list := concreteSides(sides.from); len(list) > 0 {
			b.WriteString(" from ")
			b.WriteString(strings.Join(list, ", "))
		}
		if list := concreteSides(sides.to); len(list) > 0 {
			b.WriteString(" to ")
			b.WriteString(strings.Join(list, ", "))
		}
		out[right] = b.String()
	}
	return out
}

// concreteSides returns the distinct non-wildcard statuses of one side in
// first-seen order.
func concreteSides(side []string) []string {
	var concrete []string
	for _, s := range side {
		if s != Wildcard {
			concrete = append(concrete, s)
		}
	}
	return dedupeStatuses(concrete)
}
