package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Login confirms the shared admin credential. The gate middleware has
// already vetted it, so this endpoint only echoes success.
func Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "Authentication successful",
		"authenticated": true,
	})
}
