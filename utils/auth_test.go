package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", AdminAuthMiddleware(), func(c *gin.Context) {
		var body struct {
			Note string `json:"note"`
		}
		// The gate must leave the body readable for the handler.
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"ok": true, "note": body.Note})
	})
	return r
}

func doGuarded(r http.Handler, header, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/guarded", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("X-Admin-Password", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	r := newGuardedRouter()

	assert.Equal(t, http.StatusUnauthorized, doGuarded(r, "", "{}").Code)
	assert.Equal(t, http.StatusUnauthorized, doGuarded(r, "wrong", "{}").Code)
	assert.Equal(t, http.StatusOK, doGuarded(r, "s3cret", "{}").Code)
}

func TestAdminAuthMiddlewareBodyFallback(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	r := newGuardedRouter()

	w := doGuarded(r, "", `{"password":"s3cret","note":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	// Body stayed bindable downstream.
	assert.Contains(t, w.Body.String(), `"note":"hi"`)
}

func TestAdminAuthMiddlewareHeaderTakesPrecedence(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	r := newGuardedRouter()

	// A wrong header is rejected even when the body credential is right.
	w := doGuarded(r, "wrong", `{"password":"s3cret"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
