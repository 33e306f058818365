package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "charityconnect/pkg/errors"
)

func render(t *testing.T, err error) (int, Response) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, err))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestErrorMapping(t *testing.T) {
	type payload struct {
		Text string `validate:"required"`
	}
	validationErr := validator.New().Struct(payload{})

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", validationErr, http.StatusBadRequest, "VALIDATION_ERROR", "text is required"},
		{"not found", apperrors.NotFound("Donor", nil), http.StatusNotFound, apperrors.CodeNotFound, "Donor not found"},
		{"rate limited", apperrors.TooManyRequests("slow down"), http.StatusTooManyRequests, apperrors.CodeTooManyRequests, "slow down"},
		{"http error", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token"), http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := render(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestSuccessEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Created(c, map[string]int{"modifiedCount": 2}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"modifiedCount":2}`, string(mustData(t, rec.Body.Bytes())))
}

func mustData(t *testing.T, body []byte) json.RawMessage {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &raw))
	require.True(t, raw.Success)
	return raw.Data
}
