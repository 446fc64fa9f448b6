package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRequest(t *testing.T, config CORSConfig, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(config))
	r.GET("/patients", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	config := CORSConfig{
		AllowOrigins: []string{"https://clinic.example.com"},
		AllowMethods: []string{http.MethodGet},
		MaxAge:       600,
	}

	t.Run("listed origin is echoed", func(t *testing.T) {
		w := corsRequest(t, config, "https://clinic.example.com")
		assert.Equal(t, "https://clinic.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no allow header", func(t *testing.T) {
		w := corsRequest(t, config, "https://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wildcard with credentials echoes the origin", func(t *testing.T) {
		w := corsRequest(t, DefaultCORSConfig(), "https://anywhere.example.com")
		assert.Equal(t, "https://anywhere.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
