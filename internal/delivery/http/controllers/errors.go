package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kennethlove/practice-pycon/internal/delivery/http/helpers"
	"github.com/kennethlove/practice-pycon/internal/domain"
)

// writeServiceError maps service-layer errors onto the response envelope.
// Validation failures carry their field messages; anything not found (or not
// owned by the caller) is a generic 404.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		helpers.WriteJSONValidationError(w, ve)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
		return
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
