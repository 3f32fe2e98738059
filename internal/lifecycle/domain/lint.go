package domain

import (
	"fmt"
	"sort"
)

// Issue is a configuration problem found by Validate.
type Issue struct {
	Lifecycle string `json:"lifecycle"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Lifecycle, i.Field, i.Message)
}

// Validate reports inconsistencies in a lifecycle definition. The registry
// tolerates all of them; they are surfaced to administrators only.
func Validate(name string, def Definition) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Lifecycle: name, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if name == "" {
		add("name", "lifecycle name is empty")
	}

	classOf := make(map[string]string)
	set := NewStatusSet(def.Initial, def.Active, def.Inactive)
	for _, class := range Classes {
		for _, status := range set.Class(class) {
			if err := ValidateStatusName(status); err != nil {
				add(class, "%v", err)
			}
			key := FoldStatus(status)
			if prev, ok := classOf[key]; ok {
				add(class, "status %q is already listed as %s", status, prev)
				continue
			}
			classOf[key] = class
		}
	}
	known := func(status string) bool {
		_, ok := classOf[FoldStatus(status)]
		return ok
	}

	if def.DefaultInitial != "" && !containsStatus(def.Initial, def.DefaultInitial) {
		add("default_initial", "%q is not an initial status", def.DefaultInitial)
	}
	if def.DefaultInactive != "" && !containsStatus(def.Inactive, def.DefaultInactive) {
		add("default_inactive", "%q is not an inactive status", def.DefaultInactive)
	}
	for _, situation := range sortedKeys(def.Defaults) {
		if s := def.Defaults[situation]; s != "" && !known(s) {
			add("defaults", "%s: unknown status %q", situation, s)
		}
	}

	for _, from := range sortedKeys(def.Transitions) {
		if from != "" && !known(from) {
			add("transitions", "unknown source status %q", from)
		}
		for _, to := range def.Transitions[from] {
			if !known(to) {
				add("transitions", "%s: unknown target status %q", from, to)
			}
		}
	}

	for _, key := range sortedKeys(def.Rights) {
		from, to, err := ParseTransitionKey(key)
		if err != nil {
			add("rights", "%v", err)
			continue
		}
		for _, s := range []string{from, to} {
			if s != Wildcard && !known(s) {
				add("rights", "%s: unknown status %q", key, s)
			}
		}
	}

	for i, a := range def.Actions {
		if a.From == "" || a.To == "" {
			add("actions", "entry %d: both sides of the transition are required", i)
		}
		if a.From != "" && a.From != Wildcard && !known(a.From) {
			add("actions", "entry %d: unknown status %q", i, a.From)
		}
		if a.To != "" && !known(a.To) {
			add("actions", "entry %d: unknown status %q", i, a.To)
		}
		if err := ValidateUpdate(a.Update); err != nil {
			add("actions", "entry %d: %v", i, err)
		}
	}

	return issues
}

// ValidateConfig runs Validate over every lifecycle and checks that maps
// reference configured lifecycles.
func ValidateConfig(cfg *Config) []Issue {
	var issues []Issue
	for _, name := range cfg.Names() {
		def, _ := cfg.Get(name)
		issues = append(issues, Validate(name, def)...)
	}
	keys := cfg.MapKeys()
	sort.Strings(keys)
	for _, key := range keys {
		from, to, err := ParseTransitionKey(key)
		if err != nil {
			issues = append(issues, Issue{Lifecycle: MapsKey, Field: key, Message: err.Error()})
			continue
		}
		for _, name := range []string{from, to} {
			if !cfg.Has(name) {
				issues = append(issues, Issue{Lifecycle: MapsKey, Field: key, Message: fmt.Sprintf("unknown lifecycle %q", name)})
			}
		}
	}
	return issues
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
