// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/hustler3848/devbook/internal/app/store/users"
	"github.com/hustler3848/devbook/internal/app/system/apperror"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
	"github.com/hustler3848/devbook/internal/app/system/httpjson"
	"github.com/hustler3848/devbook/internal/app/system/ratelimit"
	"github.com/hustler3848/devbook/internal/app/system/timeouts"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// Handler implements email/password sign-up and sign-in.
type Handler struct {
	Users    *userstore.Store
	Sessions *sysauth.SessionManager
	Limiter  *ratelimit.SignInLimiter
	Log      *zap.Logger
}

// NewHandler constructs the password auth handler.
func NewHandler(users *userstore.Store, sessions *sysauth.SessionManager, limiter *ratelimit.SignInLimiter, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Limiter: limiter, Log: logger}
}

type signUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeSignUp handles POST /auth/signup. Creates a profile with a derived
// username, signs the user in, and returns the profile.
func (h *Handler) ServeSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.FullName == "":
		httpjson.WriteError(w, h.Log, apperror.Validation("full name is required"))
		return
	case req.Email == "":
		httpjson.WriteError(w, h.Log, apperror.Validation("email is required"))
		return
	case len(req.Password) < minPasswordLen:
		httpjson.WriteError(w, h.Log, apperror.Validation("password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	hashStr := string(hash)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, created, err := h.Users.EnsureProfile(ctx, userstore.Identity{
		FullName: req.FullName,
		Email:    req.Email,
		Password: &hashStr,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.WriteError(w, h.Log,
				apperror.Conflict(apperror.CodeEmailInUse, "an account with this email already exists"))
			return
		}
		h.Log.Error("sign-up failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !created {
		// EnsureProfile found an existing profile for this email; that is a
		// conflict for sign-up, not a sign-in.
		httpjson.WriteError(w, h.Log,
			apperror.Conflict(apperror.CodeEmailInUse, "an account with this email already exists"))
		return
	}

	if err := h.signIn(w, r, &u); err != nil {
		return
	}

	h.Log.Info("user signed up",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))
	httpjson.Write(w, h.Log, http.StatusCreated, u)
}

// ServeSignIn handles POST /auth/signin. Failed lookups and bad passwords
// produce the same invalid_credential response so the endpoint does not
// disclose which emails have accounts.
func (h *Handler) ServeSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if !h.Limiter.Check(r, req.Email) {
		httpjson.Write(w, h.Log, http.StatusTooManyRequests, httpjson.ErrorBody{
			Error:   "too_many_attempts",
			Message: "too many sign-in attempts; try again shortly",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("sign-in lookup failed", zap.Error(err))
		}
		h.rejectCredential(w)
		return
	}
	if u.PasswordHash == nil {
		// Federated account with no password set.
		h.rejectCredential(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)) != nil {
		h.rejectCredential(w)
		return
	}

	h.Limiter.ResetEmail(req.Email)

	if err := h.signIn(w, r, u); err != nil {
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))
	httpjson.Write(w, h.Log, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeChangePassword handles PUT /me/password. The current password must be
// verified before the hash is replaced; federated accounts without a password
// are rejected.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	var req changePasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		httpjson.WriteError(w, h.Log, apperror.Validation("password must be at least 8 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log,
				apperror.Unauthorized(apperror.CodeUserNotFound, "account no longer exists"))
			return
		}
		h.Log.Error("password change lookup failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if u.PasswordHash == nil {
		httpjson.WriteError(w, h.Log,
			apperror.Validation("this account signs in with Google and has no password"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		h.rejectCredential(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, id, string(hash)); err != nil {
		h.Log.Error("password change failed", zap.Error(err), zap.String("user_id", su.ID))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("password changed", zap.String("user_id", su.ID))
	httpjson.Write(w, h.Log, http.StatusNoContent, nil)
}

// ServeSignOut handles POST /auth/signout.
func (h *Handler) ServeSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("sign-out failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusNoContent, nil)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	err := h.Sessions.SignIn(w, r, &sysauth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	})
	if err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.WriteError(w, h.Log, err)
	}
	return err
}

func (h *Handler) rejectCredential(w http.ResponseWriter) {
	httpjson.WriteError(w, h.Log,
		apperror.Unauthorized(apperror.CodeInvalidCredential, "invalid email or password"))
}
