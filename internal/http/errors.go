package http

import (
	"context"
	"errors"
	"net/http"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/middleware/trace"
	"admindash/internal/services"
	"admindash/internal/view"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		ve  *core.ValidationError
		re  *core.RetrievalError
		bad *BadRequest
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &bad),
		errors.Is(err, view.ErrNoCategorySet),
		errors.Is(err, view.ErrUnknownCard),
		errors.Is(err, view.ErrUnknownLevel):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrReportsDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &re):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorType(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return log.ErrorTypeValidation
	case http.StatusBadRequest:
		return log.ErrorTypeBadRequest
	case http.StatusNotFound:
		return log.ErrorTypeNotFound
	case http.StatusBadGateway:
		return log.ErrorTypeUpstream
	case http.StatusServiceUnavailable:
		return log.ErrorTypeUnavailable
	case http.StatusGatewayTimeout:
		return log.ErrorTypeTimeout
	default:
		return log.ErrorTypeInternal
	}
}

// writeError is the single place where domain errors become responses.
// Server errors are logged with the full chain; clients see a short message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorBody{Error: err.Error(), RequestID: trace.RequestID(r)}

	var ve *core.ValidationError
	if errors.As(err, &ve) {
		body.Error = "validation failed"
		body.Fields = ve.Fields
	}

	logger := log.FromContext(r.Context()).With(log.FieldErrorType, errorType(status))
	switch {
	case status >= 500:
		logger.ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldStatusCode, status,
			log.FieldPath, r.URL.Path)
		if status == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	default:
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldError, err,
			log.FieldStatusCode, status,
			log.FieldPath, r.URL.Path)
	}

	NewJSONResponse().Status(status).Body(body).Write(w)
}
