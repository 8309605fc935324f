// internal/app/features/snippets/routes.go
package snippets

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
)

// Routes returns a subrouter for the /snippets endpoints. Reads are public
// (private snippets are filtered per viewer inside the handlers); writes
// require a session.
func Routes(h *Handler, sessions *sysauth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeListPublic)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(sessions.RequireSignedIn)
		pr.Post("/", h.ServeCreate)
		pr.Put("/{id}", h.ServeUpdate)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}

// MountUserRoutes mounts the per-user snippet list on the /users router.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Get("/{username}/snippets", h.ServeListByUser)
}
