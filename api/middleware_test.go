package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authedRouter(tokens *auth.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		actor := currentActor(c)
		c.JSON(http.StatusOK, gin.H{"account_id": actor.AccountID, "role": actor.Role})
	})
	engine.GET("/admin", RequireAuth(tokens), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	engine := authedRouter(tokens)

	token, err := tokens.Issue(7, domain.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_Cookie(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	engine := authedRouter(tokens)

	token, err := tokens.Issue(7, domain.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	engine := authedRouter(auth.NewManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_BadToken(t *testing.T) {
	engine := authedRouter(auth.NewManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Admin(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	engine := authedRouter(tokens)

	adminToken, _ := tokens.Issue(1, domain.RoleAdmin)
	userToken, _ := tokens.Issue(2, domain.RoleUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
