package domain

// DefaultType is the lifecycle type used when none is configured.
const DefaultType = "ticket"

// Named default situations.
const (
	DefaultOnCreate          = "on_create"
	DefaultOnMerge           = "on_merge"
	DefaultApproved          = "approved"
	DefaultDenied            = "denied"
	DefaultReminderOnOpen    = "reminder_on_open"
	DefaultReminderOnResolve = "reminder_on_resolve"
)

// Definition is the raw, persisted form of one lifecycle.
type Definition struct {
	Type            string              `yaml:"type,omitempty" json:"type,omitempty"`
	Initial         []string            `yaml:"initial" json:"initial"`
	Active          []string            `yaml:"active" json:"active"`
	Inactive        []string            `yaml:"inactive" json:"inactive"`
	DefaultInitial  string              `yaml:"default_initial,omitempty" json:"default_initial,omitempty"`
	DefaultInactive string              `yaml:"default_inactive,omitempty" json:"default_inactive,omitempty"`
	Defaults        map[string]string   `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Transitions     map[string][]string `yaml:"transitions,omitempty" json:"transitions,omitempty"`
	Rights          map[string]string   `yaml:"rights,omitempty" json:"rights,omitempty"`
	Actions         Actions             `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	out := d
	out.Initial = copyStrings(d.Initial)
	out.Active = copyStrings(d.Active)
	out.Inactive = copyStrings(d.Inactive)
	out.Defaults = copyStringMap(d.Defaults)
	out.Rights = copyStringMap(d.Rights)
	out.Actions = d.Actions.Clone()
	if d.Transitions != nil {
		out.Transitions = make(map[string][]string, len(d.Transitions))
		for from, to := range d.Transitions {
			out.Transitions[from] = copyStrings(to)
		}
	}
	return out
}

// WithDefaults fills default_initial and default_inactive from the first
// status of their class when they are not set.
func (d Definition) WithDefaults() Definition {
	if d.DefaultInitial == "" && len(d.Initial) > 0 {
		d.DefaultInitial = d.Initial[0]
	}
	if d.DefaultInactive == "" && len(d.Inactive) > 0 {
		d.DefaultInactive = d.Inactive[0]
	}
	return d
}

func copyStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
