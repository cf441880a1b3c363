package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/apperr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.New(apperr.ErrValidation, "bad"), http.StatusBadRequest, CodeValidation},
		{apperr.New(apperr.ErrNotFound, "missing"), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("wrap: %w", apperr.New(apperr.ErrInvalidTransition, "no")), http.StatusConflict, CodeInvalidTransition},
		{apperr.New(apperr.ErrProtected, "admin"), http.StatusUnprocessableEntity, CodeProtected},
		{apperr.New(apperr.ErrUnauthenticated, "who"), http.StatusUnauthorized, CodeUnauthenticated},
		{apperr.New(apperr.ErrUnauthorized, "role"), http.StatusForbidden, CodeUnauthorized},
		{apperr.New(apperr.ErrConflict, "dup"), http.StatusConflict, CodeConflict},
		{fmt.Errorf("%w: es down", apperr.ErrDegraded), http.StatusServiceUnavailable, CodeDegraded},
		{errors.New("db exploded"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range tests {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestRespondHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("pq: connection refused"), "Failed to retrieve orders")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body["error"])
	assert.Equal(t, "Failed to retrieve orders", body["message"])
}

func TestRespondExposesDomainMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, apperr.New(apperr.ErrProtected, "admin accounts cannot be disabled"), "unused")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"protection_violation","message":"admin accounts cannot be disabled"}`, w.Body.String())
}
