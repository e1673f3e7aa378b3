package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to a code and user message
//  4. The code selects the HTTP status
//  5. Technical error + context is logged with request ID for correlation
//  6. The sanitized user message is written as JSON

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/vidsheet/internal/core"
	"github.com/JonMunkholm/vidsheet/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusClientClosedRequest is the non-standard status for a client that
// went away before the response was ready.
const statusClientClosedRequest = 499

// statusByCode maps error codes to HTTP statuses. Codes not listed fall
// back to their prefix in statusByPrefix.
var statusByCode = map[string]int{
	"ING001":  http.StatusBadGateway,
	"ING002":  http.StatusServiceUnavailable,
	"ING003":  http.StatusBadRequest,
	"STO001":  http.StatusNotFound,
	"REQ001":  statusClientClosedRequest,
	"REQ002":  http.StatusGatewayTimeout,
	"RATE001": http.StatusTooManyRequests,
	"RATE002": http.StatusTooManyRequests,
}

var statusByPrefix = []struct {
	prefix string
	status int
}{
	{"SRC", http.StatusBadGateway},
	{"STO", http.StatusServiceUnavailable},
}

// statusFor returns the HTTP status for an error code.
func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	for _, p := range statusByPrefix {
		if strings.HasPrefix(code, p.prefix) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}

// respondError maps err to a user message and status, logs the technical
// error, and writes the JSON error body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	status := statusFor(userMsg.Code)

	level := slog.LevelWarn
	if status >= 500 && !errors.Is(err, core.ErrNoSnapshot) {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeErrorBody(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// respondUserMessage writes the mapped message for a technical string that
// has no error value, such as a middleware rejection.
func respondUserMessage(w http.ResponseWriter, status int, technical string) {
	msg := core.MapError(errors.New(technical))
	writeErrorBody(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeJSON encodes v as JSON with status 200.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
