package domain

// StatusSet holds the classified statuses of one lifecycle.
type StatusSet struct {
	initial  []string
	active   []string
	inactive []string
	all      []string
}

// NewStatusSet builds a status set. The derived "all" list is the
// concatenation of the three classes without case-insensitive duplicates.
func NewStatusSet(initial, active, inactive []string) StatusSet {
	s := StatusSet{
		initial:  copyStrings(initial),
		active:   copyStrings(active),
		inactive: copyStrings(inactive),
	}
	s.all = dedupeStatuses(s.initial, s.active, s.inactive)
	return s
}

// Class returns the statuses of one class, or nil for an unknown class.
func (s StatusSet) Class(class string) []string {
	switch class {
	case ClassInitial:
		return s.initial
	case ClassActive:
		return s.active
	case ClassInactive:
		return s.inactive
	}
	return nil
}

// All returns every status of the set.
func (s StatusSet) All() []string {
	return s.all
}

// Valid returns all statuses when no class is given, otherwise the
// concatenation of the requested classes in the order given.
func (s StatusSet) Valid(classes ...string) []string {
	if len(classes) == 0 {
		return copyStrings(s.all)
	}
	var out []string
	for _, class := range classes {
		out = append(out, s.Class(class)...)
	}
	return out
}

// Contains reports case-insensitive membership in the requested classes.
func (s StatusSet) Contains(status string, classes ...string) bool {
	if len(classes) == 0 {
		return containsStatus(s.all, status)
	}
	for _, class := range classes {
		if containsStatus(s.Class(class), status) {
			return true
		}
	}
	return false
}

// Type returns the first class containing the status, or "".
func (s StatusSet) Type(status string) string {
	for _, class := range Classes {
		if containsStatus(s.Class(class), status) {
			return class
		}
	}
	return ""
}
