// internal/app/features/interactions/handler.go
package interactions

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	"github.com/hustler3848/devbook/internal/app/store/queries/usersnippets"
	snippetstore "github.com/hustler3848/devbook/internal/app/store/snippets"
	"github.com/hustler3848/devbook/internal/app/system/apperror"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
	"github.com/hustler3848/devbook/internal/app/system/httpjson"
	"github.com/hustler3848/devbook/internal/app/system/timeouts"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves star/save toggles and the starred/saved lists.
type Handler struct {
	DB           *mongo.Database
	Snippets     *snippetstore.Store
	Interactions *interactionstore.Store
	Log          *zap.Logger
}

// NewHandler constructs the interactions handler.
func NewHandler(db *mongo.Database, snippets *snippetstore.Store, interactions *interactionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Snippets: snippets, Interactions: interactions, Log: logger}
}

// ServeStar handles POST /snippets/{id}/star. Idempotent: repeating the call
// refreshes the relation timestamp without inflating the counter.
func (h *Handler) ServeStar(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.Star, "star")
}

// ServeUnstar handles DELETE /snippets/{id}/star.
func (h *Handler) ServeUnstar(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.Unstar, "unstar")
}

// ServeSave handles POST /snippets/{id}/save.
func (h *Handler) ServeSave(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.Save, "save")
}

// ServeUnsave handles DELETE /snippets/{id}/save.
func (h *Handler) ServeUnsave(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Interactions.Unsave, "unsave")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, primitive.ObjectID) error, verb string) {
	viewer, ok := viewerID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The snippet must exist and be visible to the viewer before a relation
	// is recorded. Un-relates skip the check entirely: a ledger entry for a
	// snippet that was since deleted or made private can still be cleaned up.
	if verb == "star" || verb == "save" {
		sn, err := h.Snippets.GetByID(ctx, id)
		switch {
		case err == nil:
			if !sn.IsPublic && sn.CreatorID != viewer {
				httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
				return
			}
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.WriteError(w, h.Log, apperror.NotFound("snippet"))
			return
		default:
			h.Log.Error("snippet lookup failed", zap.Error(err))
			httpjson.WriteError(w, h.Log, err)
			return
		}
	}

	if err := op(ctx, viewer, id); err != nil {
		h.Log.Error("interaction failed",
			zap.Error(err),
			zap.String("op", verb),
			zap.String("snippet_id", id.Hex()),
			zap.String("user_id", viewer.Hex()))
		httpjson.WriteError(w, h.Log, err)
		return
	}

	httpjson.Write(w, h.Log, http.StatusNoContent, nil)
}

// ServeListStarred handles GET /me/starred: the viewer's starred snippets in
// relation-time order, most recent first.
func (h *Handler) ServeListStarred(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, usersnippets.ListStarred)
}

// ServeListSaved handles GET /me/saved.
func (h *Handler) ServeListSaved(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, usersnippets.ListSaved)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, query func(context.Context, *mongo.Database, primitive.ObjectID) ([]models.Snippet, error)) {
	viewer, ok := viewerID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperror.Unauthorized("unauthorized", "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := query(ctx, h.DB, viewer)
	if err != nil {
		h.Log.Error("interaction list failed", zap.Error(err), zap.String("user_id", viewer.Hex()))
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Snippet{}
	}
	httpjson.Write(w, h.Log, http.StatusOK, list)
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
