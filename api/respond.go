package api

import (
	"log/slog"
	"net/http"

	"foodhub/services"

	"github.com/gin-gonic/gin"
)

// writeError maps domain error kinds onto HTTP statuses. Anything without a
// kind is an upstream failure: logged, and answered with a generic message.
func writeError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.KindUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.KindPrecondition:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
