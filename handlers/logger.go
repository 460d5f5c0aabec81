package handlers

import (
	"salonbook/middleware"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger set by RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

func businessID(c *gin.Context) string { return c.GetString(middleware.BusinessIDKey) }

func actorID(c *gin.Context) string { return c.GetString(middleware.ActorIDKey) }

// bindJSON binds the body into dst, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.BindingError(c, err)
		return false
	}
	return true
}
