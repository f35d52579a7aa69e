package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"gorm.io/gorm"
)

// abortWithError renders err immediately; used by middleware that stops the chain.
func abortWithError(c *gin.Context, err error) {
	status, body := errorResponse(c, err)
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(c *gin.Context, err error) (int, gin.H) {
	var appErr *apperrors.AppError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		body := gin.H{"error": appErr.Message}
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}
		return appErr.Code, body
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, gin.H{
			"error":   "Request validation failed",
			"details": ValidationDetails(validationErrs),
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, gin.H{"error": "Resource not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, gin.H{"error": "Resource already exists"}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled request error")

	return http.StatusInternalServerError, gin.H{"error": "Internal Server Error"}
}

// ErrorHandlerMiddleware handles errors and panics
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			status, body := errorResponse(c, c.Errors.Last().Err)
			c.JSON(status, body)
		}
	}
}
