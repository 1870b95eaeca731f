// Package id provides the integer identity shared by catalog entities.
// Identities are assigned by the persistence layer and never change afterwards.
package id

import (
	"fmt"
	"strconv"
)

// ID is the identity type used across all entities.
type ID = int64

// Parse converts a path or query value to an ID.
// Only positive values are valid identities.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("parse id %q: must be positive", s)
	}
	return v, nil
}

// String formats an ID for logs and error details.
func String(v ID) string {
	return strconv.FormatInt(v, 10)
}

// IsNil reports whether the ID has not been assigned yet.
func IsNil(v ID) bool {
	return v == 0
}

// Ptr returns a pointer to v, used for optional references.
func Ptr(v ID) *ID {
	return &v
}
