package domain

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
)

// Status classes, in the order StatusType checks them.
const (
	ClassInitial  = "initial"
	ClassActive   = "active"
	ClassInactive = "inactive"
)

// Classes lists every status class in canonical order.
var Classes = []string{ClassInitial, ClassActive, ClassInactive}

var statusPattern = regexp.MustCompile(`^[A-Za-z0-9.,! ]+$`)

// FoldStatus returns the comparison key of a status. Statuses compare
// case-insensitively but keep their configured spelling for display.
func FoldStatus(status string) string {
	// A Caser keeps state between calls and must not be shared.
	return cases.Fold().String(status)
}

// SameStatus reports whether two statuses have the same identity.
func SameStatus(a, b string) bool {
	return FoldStatus(a) == FoldStatus(b)
}

// ValidateStatusName checks a status against the character set that keeps it
// usable as a key in external string tables.
func ValidateStatusName(status string) error {
	if !statusPattern.MatchString(status) {
		return fmt.Errorf("%w: %q may only contain letters, digits, '.', ',', '!' and spaces", ErrInvalidStatus, status)
	}
	return nil
}

// ValidateStatuses checks every status of a new lifecycle. Uniqueness is
// checked across the three classes combined, within this lifecycle only.
func ValidateStatuses(initial, active, inactive []string) error {
	seen := make(map[string]string)
	for _, list := range [][]string{initial, active, inactive} {
		for _, status := range list {
			if err := ValidateStatusName(status); err != nil {
				return err
			}
			key := FoldStatus(status)
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateStatus, status, prev)
			}
			seen[key] = status
		}
	}
	return nil
}

func containsStatus(list []string, status string) bool {
	key := FoldStatus(status)
	for _, s := range list {
		if FoldStatus(s) == key {
			return true
		}
	}
	return false
}

// dedupeStatuses concatenates lists and drops case-insensitive duplicates,
// keeping the first spelling seen.
func dedupeStatuses(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, status := range list {
			key := FoldStatus(status)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, status)
		}
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
