package domain

import (
	"sort"
	"strings"
)

// Fallback rights when no rule matches.
const (
	RightModifyTicket = "ModifyTicket"
	RightDeleteTicket = "DeleteTicket"

	StatusDeleted = "deleted"
)

// RightTable maps transition keys, wildcards included, to the right
// required to perform the transition.
type RightTable struct {
	rules map[string]string
	keys  []string
	sides map[string][2]string
}

// NewRightTable normalizes rule keys to folded "from -> to" form.
// Keys without an arrow are dropped. The first spelling of each key in
// sorted order is kept for descriptions.
func NewRightTable(rights map[string]string) RightTable {
	t := RightTable{
		rules: make(map[string]string, len(rights)),
		sides: make(map[string][2]string, len(rights)),
	}
	raw := make([]string, 0, len(rights))
	for key := range rights {
		raw = append(raw, key)
	}
	sort.Strings(raw)
	for _, key := range raw {
		from, to, err := ParseTransitionKey(key)
		if err != nil {
			continue
		}
		norm := TransitionKey(FoldStatus(from), FoldStatus(to))
		if _, dup := t.rules[norm]; !dup {
			t.keys = append(t.keys, norm)
			t.sides[norm] = [2]string{from, to}
		}
		t.rules[norm] = rights[key]
	}
	return t
}

// Candidates returns the rule keys consulted for a transition, most
// specific first.
func (t RightTable) Candidates(from, to string) []string {
	from, to = FoldStatus(from), FoldStatus(to)
	return []string{
		TransitionKey(from, to),
		TransitionKey(Wildcard, to),
		TransitionKey(from, Wildcard),
		TransitionKey(Wildcard, Wildcard),
	}
}

// Resolve returns the first non-empty right among the candidates, falling
// back to DeleteTicket for moves into "deleted" and ModifyTicket otherwise.
func (t RightTable) Resolve(from, to string) string {
	for _, key := range t.Candidates(from, to) {
		if right, ok := t.rules[key]; ok && right != "" {
			return right
		}
	}
	if strings.EqualFold(to, StatusDeleted) {
		return RightDeleteTicket
	}
	return RightModifyTicket
}

// Rules returns a copy of the normalized rules.
func (t RightTable) Rules() map[string]string {
	out := make(map[string]string, len(t.rules))
	for k, v := range t.rules {
		out[k] = v
	}
	return out
}

// Keys returns the normalized rule keys in sorted configuration order.
func (t RightTable) Keys() []string {
	return copyStrings(t.keys)
}

// Sides returns the configured spelling of a normalized key's sides.
func (t RightTable) Sides(key string) (from, to string) {
	s := t.sides[key]
	return s[0], s[1]
}

// Right returns the right stored under a normalized key.
func (t RightTable) Right(key string) string {
	return t.rules[key]
}
