package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its full technical text and the request id,
// then returned to the client as a core.UserMessage. Validation and rule
// violations also carry the wrapped detail (for example the current shelf
// count); storage failures never do.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/shelfstock/internal/core"
	"github.com/JonMunkholm/shelfstock/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateKey), errors.Is(err, core.ErrImportBusy):
		return http.StatusConflict
	case errors.Is(err, core.ErrInsufficientShelfStock), errors.Is(err, core.ErrExceedsTotalStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	if core.IsUserFacing(err) {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// requestError is a malformed request body or parameter. It reports as
// core.ErrInvalidInput so it maps to 400 with its detail shown.
type requestError struct{ detail string }

func (e *requestError) Error() string { return e.detail }
func (e *requestError) Unwrap() error { return core.ErrInvalidInput }

func badRequest(detail string) error {
	return &requestError{detail: detail}
}
