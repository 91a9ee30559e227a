package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/bookspace/pkg/logger"
	"github.com/dmitrymomot/bookspace/pkg/requestid"
	"github.com/dmitrymomot/bookspace/pkg/validator"
)

// ErrorMapping maps errors matching Target (errors.Is) to a status and code.
type ErrorMapping struct {
	Target error
	Status int
	Code   string
}

// Map is shorthand for an ErrorMapping literal.
func Map(target error, status int, code string) ErrorMapping {
	return ErrorMapping{Target: target, Status: status, Code: code}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Details   map[string][]string `json:"details,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// NewErrorHandler returns the API error renderer. Classification order:
// validation errors (400), HTTPError values, then mappings in order;
// anything unmatched is a 500 whose message is not exposed.
// 4xx are logged at warn, 5xx at error.
func NewErrorHandler(log *slog.Logger, mappings ...ErrorMapping) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, detail := classify(err, mappings)
		detail.RequestID = requestid.FromContext(r.Context())

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Component("http"),
			logger.Error(err),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(ErrorBody{Error: detail})
	}
}

func classify(err error, mappings []ErrorMapping) (int, ErrorDetail) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return http.StatusBadRequest, ErrorDetail{
			Code:    "validation_error",
			Message: validator.ErrValidationFailed.Error(),
			Details: verrs.Map(),
		}
	}

	if he, ok := AsHTTPError(err); ok {
		return he.Code, ErrorDetail{Code: he.Key, Message: http.StatusText(he.Code)}
	}

	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			msg := err.Error()
			if m.Status >= http.StatusInternalServerError {
				msg = http.StatusText(m.Status)
			}
			return m.Status, ErrorDetail{Code: m.Code, Message: msg}
		}
	}

	return http.StatusInternalServerError, ErrorDetail{
		Code:    ErrInternal.Key,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
