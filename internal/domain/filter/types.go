// Package filter defines the criteria a catalog listing can be narrowed by.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Historical selects items by their archival flag.
// The string values match what the admin UI sends.
type Historical string

const (
	Active   Historical = "false" // historical = false
	Inactive Historical = "true"  // historical = true
	All      Historical = "All"   // historical is set, regardless of value
)

// ParseHistorical converts a request value to a Historical filter.
// An empty value selects Active items.
func ParseHistorical(s string) (Historical, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Active, nil
	}
	if strings.EqualFold(s, string(All)) {
		return All, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return "", fmt.Errorf("unknown historical filter %q", s)
	}
	if b {
		return Inactive, nil
	}
	return Active, nil
}

// Valid reports whether h is one of the known filters.
func (h Historical) Valid() bool {
	switch h {
	case Active, Inactive, All:
		return true
	}
	return false
}

// Matches reports whether an item with the given flag passes the filter.
// An absent flag never matches, not even under All.
func (h Historical) Matches(flag *bool) bool {
	if flag == nil {
		return false
	}
	switch h {
	case Active:
		return !*flag
	case Inactive:
		return *flag
	case All:
		return true
	}
	return false
}

// Value returns the flag an Active/Inactive filter compares against.
// ok is false for All.
func (h Historical) Value() (v bool, ok bool) {
	switch h {
	case Active:
		return false, true
	case Inactive:
		return true, true
	}
	return false, false
}
