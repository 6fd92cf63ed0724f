package transport

import (
	"context"
	"errors"
	"net/http"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/middleware"
	"abk-storefront/internal/repository"
	"abk-storefront/internal/service"

	"go.uber.org/zap"
)

// statusFor maps domain sentinels onto HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrSizeRequired),
		errors.Is(err, catalog.ErrInvalidSize),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrMissingClient),
		errors.Is(err, service.ErrInvalidTheme):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrCategoryAlreadyExists),
		errors.Is(err, repository.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err with the status statusFor picks.
// Server errors are logged and their message replaced by fallback.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, status, fallback)
		return
	}

	logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	middleware.RespondWithError(w, status, err.Error())
}

// decodeRequest decodes and validates the JSON body into v, answering 400 on failure.
// It reports whether the handler should continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// requireClient returns the client resolved by middleware.ClientIdentity, answering 400 when absent
func requireClient(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetClientID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, service.ErrMissingClient.Error())
		return "", false
	}
	return id, true
}
