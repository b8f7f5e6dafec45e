package handler

import (
	"errors"
	"net/http"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/httputil"
)

// respondDomainError maps domain errors to HTTP status codes. Failures are
// surfaced as one human-readable message; NotFound is mapped by callers that
// want a navigation fallback instead.
func respondDomainError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "deck not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrMalformedGeneration):
		httputil.RespondError(w, http.StatusBadGateway, "generation service returned an unusable result")
	case errors.Is(err, domain.ErrExportInProgress):
		httputil.RespondError(w, http.StatusConflict, "an export is already in progress")
	case errors.Is(err, domain.ErrExport):
		httputil.RespondError(w, http.StatusBadGateway, "failed to export pitch deck")
	case errors.Is(err, domain.ErrPersistence):
		httputil.RespondError(w, http.StatusInternalServerError, "failed to access saved pitch decks")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
