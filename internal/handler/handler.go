package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"green-basket/internal/middleware"
	"green-basket/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing useful left to do.
		return
	}
}

// writeError maps a service error to a client-facing status and body.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code, message := mapError(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error().Err(err)
	}
	event.Str("code", code).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeBadRequest reports a malformed payload without going through the
// domain error mapping.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
		Error:         model.ErrCodeInvalidJSON,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// mapError resolves a domain error into (status, code, message). Unknown
// errors collapse into an opaque 500.
func mapError(err error) (int, string, string) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error"
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeCategoryNotFound, model.ErrCodeUnitNotFound,
		model.ErrCodeUserNotFound, model.ErrCodeAddressNotFound, model.ErrCodeCartItemNotFound,
		model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeInvalidDelivery, model.ErrCodeAddressRequired,
		model.ErrCodeInvalidQuantity, model.ErrCodeInvalidPrice:
		status = http.StatusBadRequest
	case model.ErrCodeInsufficientStock, model.ErrCodePriceUnavailable:
		status = http.StatusConflict
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	}

	return status, domainErr.Code, domainErr.Message
}

// callerOrFail extracts the authenticated caller, failing the request with a
// 401 when the middleware did not attach one.
func callerOrFail(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.AuthUser, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, model.ErrUnauthorized, logger)
		return model.AuthUser{}, false
	}
	return user, true
}

// requireRole enforces a privilege ceiling on staff-only endpoints.
func requireRole(w http.ResponseWriter, r *http.Request, ceiling model.Role, logger zerolog.Logger) (model.AuthUser, bool) {
	user, ok := callerOrFail(w, r, logger)
	if !ok {
		return model.AuthUser{}, false
	}
	if !user.Role.AtMost(ceiling) {
		writeError(w, r, model.ErrForbidden, logger)
		return model.AuthUser{}, false
	}
	return user, true
}
