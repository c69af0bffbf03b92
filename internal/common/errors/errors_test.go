package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.errors = append(l.errors, msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.warns = append(l.warns, msg) }

// ==========================
// Mapping Tests
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", NewInvalidArgumentError("bad", ""), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("Invalid email or password"), http.StatusUnauthorized},
		{"not found", NewNotFoundError("User not found"), http.StatusNotFound},
		{"configuration", NewConfigurationError("API key missing", ""), http.StatusInternalServerError},
		{"upstream", NewUpstreamError("serp", ReasonTimeout, "timed out", nil), http.StatusInternalServerError},
		{"delivery", NewDeliveryError("email", stderrors.New("smtp down")), http.StatusInternalServerError},
		{"store", NewStoreError("insert", stderrors.New("dup")), http.StatusInternalServerError},
		{"plain error", stderrors.New("plain"), http.StatusInternalServerError},
		{"wrapped standard error", fmt.Errorf("ctx: %w", NewNotFoundError("x")), http.StatusNotFound},
		{"nil", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUpstreamError_ReasonAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewUpstreamError("gemini", ReasonConnectionError, "Gemini API connection error.", cause)

	assert.Equal(t, ReasonConnectionError, err.Reason())
	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, ErrCodeUpstreamError))
	assert.False(t, HasCode(err, ErrCodeStoreError))
	assert.Equal(t, "PROVIDER", GetErrorCategory(err.Code))
}

func TestAsStandardError_WrapsPlainErrors(t *testing.T) {
	stdErr := AsStandardError(stderrors.New("kaboom"))
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeInternalError, stdErr.Code)
	assert.Equal(t, "kaboom", stdErr.Details)
	assert.Nil(t, AsStandardError(nil))
}

// ==========================
// ErrorHandler Tests
// ==========================

func TestErrorHandler_Handle(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/users/9", nil)
	h.Handle(rec, req, NewNotFoundError("User not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "User not found"}, body)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
}

func TestErrorHandler_HandleWithMessage(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	h.HandleWithMessage(rec, req, NewStoreError("find", stderrors.New("conn reset")), "Something went wrong on the server.")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong on the server."}`, rec.Body.String())
	assert.Len(t, log.errors, 1)
}

func TestErrorHandler_HandleWithStatus(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	h.HandleWithStatus(rec, req, NewStoreError("create user", stderrors.New("duplicate key")), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
}
