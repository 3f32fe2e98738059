package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Follow-up behaviors suggested by an action.
const (
	UpdateNone    = ""
	UpdateRespond = "Respond"
	UpdateComment = "Comment"
)

// ActionEntry ties a transition to a UI label and a suggested follow-up.
// From may be the wildcard "*".
type ActionEntry struct {
	From   string `yaml:"from" json:"from"`
	To     string `yaml:"to" json:"to"`
	Label  string `yaml:"label" json:"label"`
	Update string `yaml:"update,omitempty" json:"update,omitempty"`
}

// ActionInfo is the value side of the mapping form of actions.
type ActionInfo struct {
	Label  string `yaml:"label" json:"label"`
	Update string `yaml:"update,omitempty" json:"update,omitempty"`
}

// ValidateUpdate checks the follow-up of an action.
func ValidateUpdate(update string) error {
	switch update {
	case UpdateNone, UpdateRespond, UpdateComment:
		return nil
	}
	return fmt.Errorf("%w: %q must be empty, %q or %q", ErrInvalidActionUpdate, update, UpdateRespond, UpdateComment)
}

// Actions is the canonical list form of a lifecycle's actions. Decoding
// accepts either the list form or a mapping of "from -> to" keys to
// ActionInfo; mapping keys are expanded in sorted order.
type Actions []ActionEntry

// ActionsFromMap expands the mapping form.
func ActionsFromMap(m map[string]ActionInfo) Actions {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Actions, 0, len(keys))
	for _, k := range keys {
		// A key without an arrow keeps its text as the source status.
		from, to, _ := ParseTransitionKey(k)
		out = append(out, ActionEntry{From: from, To: to, Label: m[k].Label, Update: m[k].Update})
	}
	return out
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Actions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var m map[string]ActionInfo
		if err := value.Decode(&m); err != nil {
			return err
		}
		*a = ActionsFromMap(m)
		return nil
	case yaml.SequenceNode:
		var list []ActionEntry
		if err := value.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*a = nil
			return nil
		}
	}
	return fmt.Errorf("actions: expected mapping or list at line %d", value.Line)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Actions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = nil
		return nil
	}
	switch trimmed[0] {
	case '{':
		var m map[string]ActionInfo
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		*a = ActionsFromMap(m)
		return nil
	case '[':
		var list []ActionEntry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*a = list
		return nil
	}
	return fmt.Errorf("actions: expected object or array")
}

// Clone returns a deep copy.
func (a Actions) Clone() Actions {
	if a == nil {
		return nil
	}
	out := make(Actions, len(a))
	copy(out, a)
	return out
}

// ActionTable resolves the actions offered from a status.
type ActionTable struct {
	entries Actions
}

// NewActionTable copies the entries.
func NewActionTable(entries Actions) ActionTable {
	return ActionTable{entries: entries.Clone()}
}

// Entries returns a copy of every action.
func (t ActionTable) Entries() Actions {
	return t.entries.Clone()
}

// From returns the actions available from a status: entries starting at it,
// plus wildcard entries that do not lead back to it. A wildcard entry is
// shadowed by any concrete entry reaching the same target.
func (t ActionTable) From(from string) Actions {
	if from == "" {
		return Actions{}
	}

	concreteTargets := make(map[string]struct{})
	for _, e := range t.entries {
		if e.From != Wildcard {
			concreteTargets[FoldStatus(e.To)] = struct{}{}
		}
	}

	key := FoldStatus(from)
	out := Actions{}
	for _, e := range t.entries {
		switch {
		case e.From == Wildcard:
			target := FoldStatus(e.To)
			if target == key {
				continue
			}
			if _, shadowed := concreteTargets[target]; shadowed {
				continue
			}
			out = append(out, e)
		case FoldStatus(e.From) == key:
			out = append(out, e)
		}
	}
	return out
}

// Labels returns the non-empty labels in table order.
func (t ActionTable) Labels() []string {
	var out []string
	for _, e := range t.entries {
		if e.Label != "" {
			out = append(out, e.Label)
		}
	}
	return out
}
