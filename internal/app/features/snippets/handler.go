// internal/app/features/snippets/handler.go
package snippets

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	snippetstore "github.com/hustler3848/devbook/internal/app/store/snippets"
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

// Handler serves snippet CRUD and the snippet lists.
type Handler struct {
	Snippets     *snippetstore.Store
	Users        *userstore.Store
	Interactions *interactionstore.Store
	Log          *zap.Logger
}

// NewHandler constructs the snippets handler.
func NewHandler(snippets *snippetstore.Store, users *userstore.Store, interactions *interactionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Snippets: snippets, Users: users, Interactions: interactions, Log: logger}
}

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
}

// ServeCreate handles POST /snippets.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sn, err := h.Snippets.Add(ctx, viewer, snippetstore.AddInput{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Language:    req.Language,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log,
				apperror.Unauthorized(apperror.CodeUserNotFound, "account no longer exists"))
			return
		}
		httpjson.WriteError(w, h.Log, apperror.Validation(err.Error()))
		return
	}

	h.Log.Info("snippet created",
		zap.String("snippet_id", sn.ID.Hex()),
		zap.String("user_id", viewer.Hex()))
	httpjson.Write(w, h.Log, http.StatusCreated, sn)
}

// ServeGet handles GET /snippets/{id}. Private snippets are only visible to
// their owner; everyone else gets a 404 so existence is not disclosed.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := snippetID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sn, err := h.Snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
			return
		}
		h.Log.Error("snippet lookup failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	viewer, signedIn := viewerID(r)
	if !sn.IsPublic && (!signedIn || viewer != sn.CreatorID) {
		httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
		return
	}

	list := []models.Snippet{*sn}
	if err := h.annotate(ctx, r, list); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, list[0])
}

type updateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Code        *string  `json:"code"`
	Language    *string  `json:"language"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

// ServeUpdate handles PUT /snippets/{id}. Owner only.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	sn, viewer, ok := h.requireOwned(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Snippets.Update(ctx, sn.ID, snippetstore.UpdatePatch{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Language:    req.Language,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
			return
		}
		httpjson.WriteError(w, h.Log, apperror.Validation(err.Error()))
		return
	}

	updated, err := h.Snippets.GetByID(ctx, sn.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("snippet updated",
		zap.String("snippet_id", sn.ID.Hex()),
		zap.String("user_id", viewer.Hex()))
	httpjson.Write(w, h.Log, http.StatusOK, updated)
}

// ServeDelete handles DELETE /snippets/{id}. Owner only. Ledger entries
// referencing the snippet are left behind; reads drop them.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	sn, viewer, ok := h.requireOwned(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Snippets.Delete(ctx, sn.ID); err != nil {
		h.Log.Error("snippet delete failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("snippet deleted",
		zap.String("snippet_id", sn.ID.Hex()),
		zap.String("user_id", viewer.Hex()))
	httpjson.Write(w, h.Log, http.StatusNoContent, nil)
}

// ServeListPublic handles GET /snippets: the public feed, newest first, with
// viewer annotations when signed in.
func (h *Handler) ServeListPublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Snippets.ListPublic(ctx)
	if err != nil {
		h.Log.Error("public feed failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if err := h.annotate(ctx, r, list); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, list)
}

// ServeListByUser handles GET /users/{username}/snippets. The owner sees all
// of their snippets; everyone else sees only the public ones.
func (h *Handler) ServeListByUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	owner, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperror.NotFound("user"))
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	viewer, signedIn := viewerID(r)

	var list []models.Snippet
	if signedIn && viewer == owner.ID {
		list, err = h.Snippets.ListByOwner(ctx, owner.ID)
	} else {
		list, err = h.Snippets.ListPublicByOwner(ctx, owner.ID)
	}
	if err != nil {
		h.Log.Error("user snippet list failed", zap.Error(err))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if err := h.annotate(ctx, r, list); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, list)
}

// annotate fills in IsStarred/IsSaved for a signed-in viewer with one ledger
// read per relation. For anonymous viewers the flags stay nil.
func (h *Handler) annotate(ctx context.Context, r *http.Request, list []models.Snippet) error {
	viewer, ok := viewerID(r)
	if !ok || len(list) == 0 {
		return nil
	}

	status, err := h.Interactions.GetInteractionStatus(ctx, viewer)
	if err != nil {
		h.Log.Error("interaction status failed", zap.Error(err))
		return err
	}
	for i := range list {
		starred := status.IsStarred(list[i].ID)
		saved := status.IsSaved(list[i].ID)
		list[i].IsStarred = &starred
		list[i].IsSaved = &saved
	}
	return nil
}

// requireOwned loads the snippet and checks the viewer owns it. Missing
// snippets are 404; someone else's snippet is 403.
func (h *Handler) requireOwned(w http.ResponseWriter, r *http.Request) (*models.Snippet, primitive.ObjectID, bool) {
	viewer, ok := viewerID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return nil, primitive.NilObjectID, false
	}

	id, err := snippetID(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
		return nil, primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sn, err := h.Snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
		} else {
			h.Log.Error("snippet lookup failed", zap.Error(err))
			httpjson.WriteError(w, h.Log, err)
		}
		return nil, primitive.NilObjectID, false
	}
	if sn.CreatorID != viewer {
		httpjson.WriteError(w, h.Log, apperror.Forbidden("snippet can only be modified by its owner"))
		return nil, primitive.NilObjectID, false
	}
	return sn, viewer, true
}

func viewerID(r *http.Request) (primitive.ObjectID, bool) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func snippetID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}
