// internal/app/features/assist/routes.go
package assist

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
)

// Routes returns a subrouter for the /assist endpoints. All require a
// session.
func Routes(h *Handler, sessions *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessions.RequireSignedIn)
	r.Post("/describe", h.ServeDescribe)
	r.Post("/explain", h.ServeExplain)
	r.Post("/tags", h.ServeTags)
	return r
}
