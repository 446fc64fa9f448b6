package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler catches errors attached to the gin context by handlers that
// did not write a response themselves and maps them to a status.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last()
		status := http.StatusInternalServerError
		message := "internal server error"

		var coded interface{ StatusCode() int }
		if errors.As(lastErr.Err, &coded) {
			status = coded.StatusCode()
			message = lastErr.Error()
		}

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: message,
		})
	}
}
