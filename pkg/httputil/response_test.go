package httputil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/invoices", nil)
	RespondWithError(c, err)
	return w
}

func TestRespondWithError(t *testing.T) {
	t.Run("app error maps to its status", func(t *testing.T) {
		w := respond(t, apperrors.NotFound("invoice", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "invoice not found")
	})

	t.Run("wrapped app error still maps", func(t *testing.T) {
		wrapped := fmt.Errorf("recording payment: %w", apperrors.NotFound("invoice", nil))
		w := respond(t, wrapped)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown error is a generic 500", func(t *testing.T) {
		w := respond(t, fmt.Errorf("connection reset"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
