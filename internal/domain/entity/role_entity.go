package entity

import (
	"fmt"
	"strings"
)

// Role is the closed set of access classes.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// rolePriority decides the landing route when a principal holds several roles.
var rolePriority = []Role{RoleAdmin, RoleUser}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string { return string(r) }

// ParseRole accepts any casing and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RoleSet is the canonical representation of roles inside the core.
// Single-role fields, role arrays and comma-joined strings are converted
// into a RoleSet at the edges.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			s[r] = struct{}{}
		}
	}
	return s
}

// ParseRoles splits a comma-separated role string. Unknown entries are skipped.
func ParseRoles(raw string) RoleSet {
	s := RoleSet{}
	for _, part := range strings.Split(raw, ",") {
		if r, err := ParseRole(part); err == nil {
			s[r] = struct{}{}
		}
	}
	return s
}

// RoleSetFromStrings converts an array-shaped role claim.
func RoleSetFromStrings(raw []string) RoleSet {
	s := RoleSet{}
	for _, v := range raw {
		if r, err := ParseRole(v); err == nil {
			s[r] = struct{}{}
		}
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) Empty() bool { return len(s) == 0 }

// Intersects reports whether any role is shared between the two sets.
func (s RoleSet) Intersects(other RoleSet) bool {
	for r := range s {
		if other.Has(r) {
			return true
		}
	}
	return false
}

// Primary returns the highest-priority role held, or "" for an empty set.
func (s RoleSet) Primary() Role {
	for _, r := range rolePriority {
		if s.Has(r) {
			return r
		}
	}
	return ""
}

// Slice returns roles in priority order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range rolePriority {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
