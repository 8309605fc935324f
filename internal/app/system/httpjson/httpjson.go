// internal/app/system/httpjson/httpjson.go
//
// Package httpjson standardizes how handlers write JSON responses and map
// application errors to HTTP status codes. Every error response has the same
// shape:
//
//	{"error": "username_taken", "message": "username is already taken"}
//
// so the frontend always knows what fields to expect regardless of status.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hustler3848/devbook/internal/app/system/apperror"
	"go.uber.org/zap"
)

// ErrorBody is the standard error payload for all API endpoints.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Write sends data as JSON with the given status code. Headers must be set
// before the first body write, so status goes out before encoding.
func Write(w http.ResponseWriter, log *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil && log != nil {
		log.Error("encode JSON response failed", zap.Error(err))
	}
}

// WriteError maps a domain error to an HTTP status and writes the standard
// error body. Unknown errors become an opaque 500 so internals never leak.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	body := ErrorBody{Error: "internal_error", Message: "an internal error occurred"}

	var ae *apperror.Error
	if errors.As(err, &ae) {
		body.Error = ae.Code
		body.Message = ae.Message
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
	} else if log != nil {
		log.Error("unhandled error", zap.Error(err))
	}

	Write(w, log, status, body)
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Validation("invalid JSON body")
	}
	return nil
}
