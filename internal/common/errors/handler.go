// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler converts errors into the JSON error envelope at the request boundary.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle writes {"error": message} with the status mapped from the error code.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := AsStandardError(err)
	status := HTTPStatus(stdErr)
	h.log(r, stdErr, status)
	WriteEnvelope(w, status, map[string]interface{}{"error": stdErr.Message})
}

// HandleWithMessage logs err but responds with a fixed public message.
func (h *ErrorHandler) HandleWithMessage(w http.ResponseWriter, r *http.Request, err error, message string) {
	stdErr := AsStandardError(err)
	status := HTTPStatus(stdErr)
	h.log(r, stdErr, status)
	WriteEnvelope(w, status, map[string]interface{}{"error": message})
}

// HandleWithStatus writes {"error": message} with a fixed status regardless of the error code.
func (h *ErrorHandler) HandleWithStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	stdErr := AsStandardError(err)
	h.log(r, stdErr, status)
	WriteEnvelope(w, status, map[string]interface{}{"error": stdErr.Message})
}

func (h *ErrorHandler) log(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}

// WriteEnvelope writes body as JSON with the given status.
func WriteEnvelope(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
