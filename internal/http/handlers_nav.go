package httpx

import (
	"net/http"

	"github.com/clubdesk/clubdesk-ui-api/internal/core/viewgate"
)

// NavHandlers serves the navigation viewmodel: the entries the current
// session's role set may see.
type NavHandlers struct {
	Entries []viewgate.NavEntry
}

type navResponse struct {
	Entries []viewgate.NavEntry `json:"entries"`
}

// Nav handles GET /api/nav. The route sits behind RequireRoles with no
// required roles, so any authenticated session reaches it; the entry list is
// then filtered per role.
func (h *NavHandlers) Nav(w http.ResponseWriter, r *http.Request) {
	entries := h.Entries
	if entries == nil {
		entries = viewgate.DefaultNav()
	}

	state, ok := StateFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, navResponse{Entries: []viewgate.NavEntry{}})
		return
	}

	WriteJSON(w, http.StatusOK, navResponse{
		Entries: viewgate.VisibleNav(entries, state.CurrentRoles()),
	})
}
