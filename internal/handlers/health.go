package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/database"
)

// Health reports whether the service and its database are reachable.
func Health(c *gin.Context) {
	sqlDB, err := database.GetDB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"message": "Database is unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Rental operations API is running",
	})
}
