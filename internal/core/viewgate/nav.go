package viewgate

import domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"

// NavEntry is one navigation item in the dashboard chrome.
type NavEntry struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Path     string            `json:"path"`
	Required []domainauth.Role `json:"-"`
}

// DefaultNav returns the dashboard navigation tree. Entries with an empty
// Required list are visible to every authenticated session.
func DefaultNav() []NavEntry {
	return []NavEntry{
		{ID: "dashboard", Label: "Tableau de bord", Path: "/dashboard"},
		{
			ID: "planning", Label: "Planning", Path: "/planning",
			Required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleCoach},
		},
		{
			ID: "effectif", Label: "Effectif", Path: "/effectif",
			Required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleCoach},
		},
		{
			ID: "medical", Label: "Suivi médical", Path: "/medical",
			Required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStafMedical},
		},
		{
			ID: "finance", Label: "Finances", Path: "/finance",
			Required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleResponsableFinancier},
		},
		{
			ID: "performance", Label: "Performances", Path: "/performance",
			Required: []domainauth.Role{
				domainauth.RoleAdmin, domainauth.RoleCoach, domainauth.RoleJoueur,
			},
		},
		{
			ID: "admin", Label: "Administration", Path: "/admin",
			Required: []domainauth.Role{domainauth.RoleAdmin},
		},
	}
}

// VisibleNav filters entries down to those the role set may see.
func VisibleNav(entries []NavEntry, roles domainauth.RoleSet) []NavEntry {
	visible := make([]NavEntry, 0, len(entries))
	for _, entry := range entries {
		if domainauth.Allows(entry.Required, roles) {
			visible = append(visible, entry)
		}
	}
	return visible
}
