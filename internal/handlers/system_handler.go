package handlers

import (
	"net/http"

	"bijuli-pos/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus reports liveness plus the terminal ID so support can tell
// which counter a call is coming from.
func GetSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"terminal_id": utils.GetTerminalID(),
	})
}
