package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"webstarter-backend/internal/models"
)

// AdminChecker answers whether an email belongs to an active admin.
type AdminChecker interface {
	IsAdmin(email string) (bool, error)
}

// AdminGate is the second authorization layer: a valid token is
// necessary but not sufficient, the email must also match an active
// admin_users row.
func AdminGate(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
			c.Abort()
			return
		}

		email, exists := c.Get(UserEmailKey)
		if !exists {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access denied"})
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(email.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to verify admin",
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		if !isAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
