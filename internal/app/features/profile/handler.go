// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	userstore "github.com/hustler3848/devbook/internal/app/store/users"
	"github.com/hustler3848/devbook/internal/app/system/apperror"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
	"github.com/hustler3848/devbook/internal/app/system/httpjson"
	"github.com/hustler3848/devbook/internal/app/system/timeouts"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves profile pages and profile edits.
type Handler struct {
	Users    *userstore.Store
	Sessions *sysauth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs the profile handler.
func NewHandler(users *userstore.Store, sessions *sysauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Log: logger}
}

// profileResponse is a profile plus its derived counters.
type profileResponse struct {
	User  models.User      `json:"user"`
	Stats models.UserStats `json:"stats"`
}

// ServeGet handles GET /users/{username}: the public profile page payload.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperror.NotFound("user"))
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.respond(w, r, u)
}

// ServeMe handles GET /me: the signed-in user's own profile.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, _ := sysauth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The account behind the cookie no longer exists.
			httpjson.WriteError(w, h.Log,
				apperror.Unauthorized(apperror.CodeUserNotFound, "account no longer exists"))
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.respond(w, r, u)
}

type updateRequest struct {
	FullName  *string             `json:"fullName"`
	Username  *string             `json:"username"`
	Bio       *string             `json:"bio"`
	AvatarURL *string             `json:"avatarUrl"`
	Links     *models.SocialLinks `json:"links"`
}

// ServeUpdate handles PUT /me: applies a partial profile edit, propagating
// the display fields to the user's snippets and the session cookie.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	su, _ := sysauth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, id, id, userstore.ProfilePatch{
		FullName:  req.FullName,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Links:     req.Links,
	})
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrUsernameTaken):
			httpjson.WriteError(w, h.Log,
				apperror.Conflict(apperror.CodeUsernameTaken, "username is already taken"))
		case errors.Is(err, userstore.ErrNotOwner):
			httpjson.WriteError(w, h.Log, apperror.Forbidden("profile can only be edited by its owner"))
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.WriteError(w, h.Log, apperror.NotFound("user"))
		default:
			h.Log.Error("profile update failed", zap.Error(err), zap.String("user_id", su.ID))
			httpjson.WriteError(w, h.Log, apperror.Validation(err.Error()))
		}
		return
	}

	// Refresh the display fields cached in the session cookie. Deliberately
	// outside the store batch; a failure here leaves the cookie stale until
	// the next sign-in, not the database inconsistent.
	if err := h.Sessions.Refresh(w, r, u.FullName, u.Username); err != nil {
		h.Log.Warn("session refresh after profile edit failed", zap.Error(err))
	}

	h.Log.Info("profile updated",
		zap.String("user_id", su.ID),
		zap.String("username", u.Username))
	h.respond(w, r, u)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, u *models.User) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	stats, err := h.Users.Stats(ctx, u.ID)
	if err != nil {
		h.Log.Error("profile stats failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, h.Log, http.StatusOK, profileResponse{User: *u, Stats: stats})
}
