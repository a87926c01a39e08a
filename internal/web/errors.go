package web

// errors.go turns service errors into JSON responses.
//
// The flow:
//  1. A handler gets an error from the service
//  2. It calls respondError, passing the session view if it has one
//  3. The error is mapped via core.MapError to a code and message
//  4. The technical error is logged with the request and session IDs
//  5. The client gets an ErrorResponse; domain errors also carry the
//     detailed text (cell position, offending input) and the session view

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/core"
	"github.com/JonMunkholm/MatrixWizard/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Session *core.SessionView `json:"session,omitempty"`
}

// respondError logs err and writes the mapped response. view, when not
// nil, is the session as it stands after the failed operation.
func respondError(w http.ResponseWriter, r *http.Request, err error, view *core.SessionView) {
	msg := core.MapError(err)
	status := statusFor(msg.Code)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= 500 {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Session: view,
	}
	if core.IsUserFacing(err) {
		resp.Error = err.Error()
	}
	writeError(w, status, resp)
}

// badRequest answers requests whose body or path cannot be read.
func badRequest(w http.ResponseWriter, r *http.Request, detail string) {
	logging.FromContext(r.Context()).Info("bad request", "path", r.URL.Path, "detail", detail)
	writeError(w, http.StatusBadRequest, ErrorResponse{
		Error:   detail,
		Message: "The request could not be read",
		Action:  "Check the request body and path",
		Code:    "REQ001",
	})
}

// statusFor maps an error code family to an HTTP status.
func statusFor(code string) int {
	switch {
	case code == "SES001":
		return http.StatusNotFound
	case code == "SES002":
		return http.StatusServiceUnavailable
	case code == "SES003":
		return http.StatusBadRequest
	case code == "SES004", code == "SES005":
		return http.StatusGatewayTimeout
	case strings.HasPrefix(code, "WIZ"):
		return http.StatusConflict
	case strings.HasPrefix(code, "SEL"), strings.HasPrefix(code, "ENT"),
		strings.HasPrefix(code, "MAT"), strings.HasPrefix(code, "TRN"):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "DB"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "RATE"):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
