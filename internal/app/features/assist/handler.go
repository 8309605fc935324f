// internal/app/features/assist/handler.go
package assist

import (
	"context"
	"errors"
	"net/http"

	"github.com/hustler3848/devbook/internal/app/ai"
	"github.com/hustler3848/devbook/internal/app/system/apperror"
	"github.com/hustler3848/devbook/internal/app/system/httpjson"
	"github.com/hustler3848/devbook/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the AI-assist endpoints backing the snippet form. All
// endpoints require a session so the model quota cannot be consumed
// anonymously.
type Handler struct {
	Assistant ai.Assistant
	Log       *zap.Logger
}

// NewHandler constructs the assist handler.
func NewHandler(assistant ai.Assistant, logger *zap.Logger) *Handler {
	return &Handler{Assistant: assistant, Log: logger}
}

type describeRequest struct {
	Code string `json:"code"`
}

type tagsRequest struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// ServeDescribe handles POST /assist/describe: description, tag suggestions,
// and detected language for the pasted code.
func (h *Handler) ServeDescribe(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out, err := h.Assistant.DescribeSnippet(ctx, req.Code)
	if err != nil {
		h.writeAssistError(w, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, out)
}

// ServeExplain handles POST /assist/explain: a walkthrough plus review.
func (h *Handler) ServeExplain(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out, err := h.Assistant.ExplainSnippet(ctx, req.Code)
	if err != nil {
		h.writeAssistError(w, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, out)
}

// ServeTags handles POST /assist/tags.
func (h *Handler) ServeTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tags, err := h.Assistant.SuggestTags(ctx, req.Title, req.Code)
	if err != nil {
		h.writeAssistError(w, err)
		return
	}
	httpjson.Write(w, h.Log, http.StatusOK, tagsResponse{Tags: tags})
}

func (h *Handler) writeAssistError(w http.ResponseWriter, err error) {
	if errors.Is(err, ai.ErrEmptyCode) {
		httpjson.WriteError(w, h.Log, apperror.Validation("snippet code is required"))
		return
	}
	h.Log.Error("assist call failed", zap.Error(err))
	httpjson.Write(w, h.Log, http.StatusBadGateway, httpjson.ErrorBody{
		Error:   "assist_unavailable",
		Message: "the assistant is unavailable; try again later",
	})
}
