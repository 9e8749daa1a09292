package auth

// Allows decides whether a caller holding current may access a resource
// requiring any of required. An empty requirement list means no
// restriction. Otherwise access is granted when at least one required role
// (normalized) is present in the current set — OR semantics, holding any
// one required role is sufficient.
func Allows(required []Role, current RoleSet) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if current.Has(Normalize(string(r))) {
			return true
		}
	}
	return false
}
