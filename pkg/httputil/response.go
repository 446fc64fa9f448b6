package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an API error payload
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps err to its HTTP status. AppError detail stays
// server-side; anything else is reported as a generic 500.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		statusCode = appErr.StatusCode()
		message = appErr.Message
	}

	if statusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request failed")
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    statusCode,
			Message: message,
		},
	})
}
