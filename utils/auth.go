// utils/auth.go
package utils

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AdminPassword returns the configured shared admin credential.
func AdminPassword() string {
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	return "admin123"
}

// AdminAuthMiddleware guards administrative routes with the single shared
// credential. The password travels in the X-Admin-Password header or a
// "password" body field; the header takes precedence.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Password")
		if provided == "" {
			provided = passwordFromBody(c)
		}

		expected := AdminPassword()
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid password"})
			return
		}

		c.Next()
	}
}

// passwordFromBody peeks at a JSON body for a "password" field, restoring
// the body so handlers can still bind it.
func passwordFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	raw, err := c.GetRawData()
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var body struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Password
}
