package auth

// Package auth contains domain-level types for authorization state.
// It is pure and free of framework/adapter concerns.

import "time"

// Role is a canonical authorization role: uppercase ASCII, underscore
// delimited, drawn from the closed vocabulary below. Raw provider strings
// are mapped onto this vocabulary by Normalize; strings that match no known
// synonym keep their uppercased form but will not satisfy any access rule.
type Role string

const (
	RoleAdmin                Role = "ADMIN"
	RoleCoach                Role = "COACH"
	RoleJoueur               Role = "JOUEUR"
	RoleInvite               Role = "INVITE"
	RoleStafMedical          Role = "STAF_MEDICAL"
	RoleResponsableFinancier Role = "RESPONSABLE_FINANCIER"
)

// Vocabulary returns the closed set of canonical roles.
func Vocabulary() []Role {
	return []Role{
		RoleAdmin,
		RoleCoach,
		RoleJoueur,
		RoleInvite,
		RoleStafMedical,
		RoleResponsableFinancier,
	}
}

// User is the last-known profile delivered by the login boundary.
// Role is free text from the provider and is consulted only as a fallback
// when the bearer token yields no role claims.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Snapshot is the live authorization tuple for one client session:
// the bearer token (or empty), the last-known user (or nil), and the
// role set derived from them.
type Snapshot struct {
	Token string
	User  *User
	Roles RoleSet
}

// AuthEventKind classifies audit-trail entries for the auth lifecycle.
type AuthEventKind string

const (
	AuthEventLoginSucceeded AuthEventKind = "login_succeeded"
	AuthEventLoginFailed    AuthEventKind = "login_failed"
	AuthEventLogout         AuthEventKind = "logout"
)

// AuthEvent is one audit-trail record of an authentication lifecycle event.
type AuthEvent struct {
	ID        string
	SessionID string
	UserID    string
	Kind      AuthEventKind
	Detail    string
	At        time.Time
}
