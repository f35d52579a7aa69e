package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
)

// bindJSON binds the body into dest and queues a 400 when it fails.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.Error(apperrors.Validation("Request validation failed", middleware.ValidationDetails(verrs)))
		} else {
			c.Error(apperrors.BadRequest("Invalid request body"))
		}
		return false
	}
	return true
}

func getActorID(c *gin.Context) string {
	return middleware.CurrentUserID(c)
}

// pagination reads ?page= and ?limit= with sane bounds.
func pagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}
