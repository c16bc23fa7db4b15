package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fondos/pkg/domain-errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeInvalidInput, http.StatusBadRequest},
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeForbidden, http.StatusForbidden},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, dErrors.New(tc.code, "some message"))
		assert.Equal(t, tc.status, rec.Code, "code %s", tc.code)

		body := decodeBody(t, rec)
		assert.Equal(t, string(tc.code), body["error"])
	}
}

func TestWriteError_InternalDetailSuppressed(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to persist client"))

	body := decodeBody(t, rec)
	assert.Equal(t, "internal_error", body["error"])
	assert.NotContains(t, body, "error_description")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteError_DescriptionForClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeConflict, "already subscribed to this fund"))

	body := decodeBody(t, rec)
	assert.Equal(t, "already subscribed to this fund", body["error_description"])
}

type detailedErr struct{}

func (detailedErr) Error() string { return "insufficient balance" }
func (detailedErr) Details() any {
	return map[string]int64{"balance": 100, "required": 150, "shortfall": 50}
}

func TestWriteError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.Wrap(detailedErr{}, dErrors.CodeConflict, "insufficient balance to subscribe"))

	body := decodeBody(t, rec)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, "details missing: %v", body)
	assert.Equal(t, float64(50), details["shortfall"])
}

type sampleRequest struct {
	Name string `json:"name"`
}

func (r *sampleRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("malformed body is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

		_, ok := DecodeAndPrepare[sampleRequest](rec, req, nil, req.Context(), "req-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure writes the error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

		_, ok := DecodeAndPrepare[sampleRequest](rec, req, nil, req.Context(), "req-2")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name is required")
	})

	t.Run("valid body returns the request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))

		decoded, ok := DecodeAndPrepare[sampleRequest](rec, req, nil, req.Context(), "req-3")
		require.True(t, ok)
		assert.Equal(t, "ok", decoded.Name)
	})
}
