package auth

import "sort"

// RoleSet is a deduplicated, order-irrelevant collection of canonical roles.
// The empty (or nil) set means "unauthenticated or no claims" and denies
// every restricted check.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s.Add(r)
	}
	return s
}

// Add inserts a role. Empty roles are ignored.
func (s RoleSet) Add(r Role) {
	if r == "" {
		return
	}
	s[r] = struct{}{}
}

// Has reports whether the set contains the given role. Safe on a nil set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// IsEmpty reports whether the set grants no roles. Safe on a nil set.
func (s RoleSet) IsEmpty() bool { return len(s) == 0 }

// Equal reports whether two sets contain exactly the same roles.
func (s RoleSet) Equal(other RoleSet) bool {
	if len(s) != len(other) {
		return false
	}
	for r := range s {
		if !other.Has(r) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Values returns the roles in sorted order for deterministic output.
func (s RoleSet) Values() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
