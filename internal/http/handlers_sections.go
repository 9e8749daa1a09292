package httpx

import "net/http"

// SectionHandlers serves the dashboard section viewmodels. Each section is a
// thin JSON payload the frontend hydrates; access control happens in the
// RequireRoles middleware in front of these routes.
type SectionHandlers struct{}

func (h *SectionHandlers) section(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, _ := StateFromContext(r.Context())

		payload := map[string]any{"section": id}
		if state != nil {
			payload["roles"] = state.CurrentRoles().Values()
			if user := state.CurrentUser(); user != nil {
				payload["user"] = toUserPayload(user)
			}
		}
		WriteJSON(w, http.StatusOK, payload)
	}
}
