package domain

import (
	"regexp"
	"strings"
)

// Registry maps a card UID (uppercase hex) to the employee's display name.
type Registry map[string]string

// Employee is the API-facing view of one registry entry.
type Employee struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

var uidPattern = regexp.MustCompile(`^[0-9A-F]+$`)

// NormalizeUID trims surrounding whitespace and uppercases the identifier.
func NormalizeUID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidUID reports whether a normalized identifier is acceptable: hex only,
// even length, between 8 and 20 characters inclusive.
func ValidUID(uid string) bool {
	if len(uid) < 8 || len(uid) > 20 || len(uid)%2 != 0 {
		return false
	}
	return uidPattern.MatchString(uid)
}

// Clone returns a shallow copy of the registry.
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for uid, name := range r {
		out[uid] = name
	}
	return out
}
