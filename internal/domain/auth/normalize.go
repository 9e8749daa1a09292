package auth

import "strings"

// synonyms maps lowercase raw role strings, including accented and spacing
// variants seen across identity providers, onto the canonical vocabulary.
// Keys must be lowercase; canonical forms are included as their own
// lowercase keys so Normalize is idempotent.
var synonyms = map[string]Role{
	"admin":          RoleAdmin,
	"administrateur": RoleAdmin,
	"administrator":  RoleAdmin,

	"coach":      RoleCoach,
	"entraineur": RoleCoach,
	"entraîneur": RoleCoach,

	"joueur": RoleJoueur,
	"player": RoleJoueur,

	"invite": RoleInvite,
	"invité": RoleInvite,
	"guest":  RoleInvite,

	"staf_medical":  RoleStafMedical,
	"staf medical":  RoleStafMedical,
	"staf médical":  RoleStafMedical,
	"staff_medical": RoleStafMedical,
	"staff medical": RoleStafMedical,
	"staff médical": RoleStafMedical,

	"responsable_financier": RoleResponsableFinancier,
	"responsable financier": RoleResponsableFinancier,
	"responsable finances":  RoleResponsableFinancier,
}

// Normalize maps an arbitrary raw role string onto the canonical vocabulary.
// It is total and idempotent: unknown input falls back to its trimmed,
// uppercased form, which round-trips through Normalize unchanged.
func Normalize(raw string) Role {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := synonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return Role(strings.ToUpper(trimmed))
}

// NormalizeAll normalizes raw strings into a deduplicated RoleSet,
// dropping empties.
func NormalizeAll(raw []string) RoleSet {
	set := make(RoleSet, len(raw))
	for _, s := range raw {
		set.Add(Normalize(s))
	}
	return set
}
