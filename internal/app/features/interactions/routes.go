// internal/app/features/interactions/routes.go
package interactions

import (
	"github.com/go-chi/chi/v5"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
)

// MountSnippetRoutes mounts the star/save toggles on the /snippets router.
func (h *Handler) MountSnippetRoutes(r chi.Router, sessions *sysauth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sessions.RequireSignedIn)
		pr.Post("/{id}/star", h.ServeStar)
		pr.Delete("/{id}/star", h.ServeUnstar)
		pr.Post("/{id}/save", h.ServeSave)
		pr.Delete("/{id}/save", h.ServeUnsave)
	})
}

// MountMeRoutes mounts the starred/saved lists on the /me router. The caller
// applies RequireSignedIn.
func (h *Handler) MountMeRoutes(r chi.Router) {
	r.Get("/starred", h.ServeListStarred)
	r.Get("/saved", h.ServeListSaved)
}
