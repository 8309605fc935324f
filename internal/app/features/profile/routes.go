// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// MountUserRoutes mounts the public profile endpoints on the /users router.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Get("/{username}", h.ServeGet)
}

// MountMeRoutes mounts the signed-in profile endpoints on the /me router.
// The caller applies RequireSignedIn.
func (h *Handler) MountMeRoutes(r chi.Router) {
	r.Get("/", h.ServeMe)
	r.Put("/", h.ServeUpdate)
}
