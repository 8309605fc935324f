// internal/app/features/auth/routes.go
package auth

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the password auth endpoints, mounted under
// /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.ServeSignUp)
	r.Post("/signin", h.ServeSignIn)
	r.Post("/signout", h.ServeSignOut)
	return r
}

// MountMeRoutes attaches the signed-in account endpoints to the /me router.
// The caller guards the router with RequireSignedIn.
func (h *Handler) MountMeRoutes(r chi.Router) {
	r.Put("/password", h.ServeChangePassword)
}
