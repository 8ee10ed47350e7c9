package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk-api/internal/services"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"developerId": "required"}}, http.StatusUnprocessableEntity},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"permission denied", services.ErrPermissionDenied, http.StatusForbidden},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"missing agent", services.ErrMissingAgent, http.StatusUnauthorized},
		{"invalid state", services.ErrInvalidState, http.StatusConflict},
		{"filters failed", services.ErrFiltersFailed, http.StatusBadGateway},
		{"upstream 422", &upstream.APIError{StatusCode: 422, Message: "duplicate unit"}, http.StatusBadGateway},
		{"upstream 401", &upstream.APIError{StatusCode: 401, Message: "token expired"}, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRespondError_UpstreamMessagePassedThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &upstream.APIError{StatusCode: 422, Message: "duplicate unit"})
	assert.Contains(t, w.Body.String(), "duplicate unit")
}
