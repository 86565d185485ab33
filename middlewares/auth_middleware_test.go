package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/admin", AuthMiddleware(), RequireRole(models.RoleManager), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := protectedRouter()

	token, err := utils.GenerateToken(7, models.RoleCustomer)
	assert.NoError(t, err)

	w := get(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthMiddlewareRejectsMissingAndGarbageTokens(t *testing.T) {
	router := protectedRouter()

	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "not-a-jwt").Code)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	router := protectedRouter()

	token, err := utils.GenerateToken(7, models.RoleCustomer)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/me?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsBlacklistedToken(t *testing.T) {
	router := protectedRouter()

	token, err := utils.GenerateToken(7, models.RoleCustomer)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(router, "/me", token).Code)

	utils.BlacklistToken(token)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	router := protectedRouter()

	customer, _ := utils.GenerateToken(1, models.RoleCustomer)
	manager, _ := utils.GenerateToken(2, models.RoleManager)
	admin, _ := utils.GenerateToken(3, models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, get(router, "/admin", customer).Code)
	assert.Equal(t, http.StatusOK, get(router, "/admin", manager).Code)
	// Admin passes every role gate.
	assert.Equal(t, http.StatusOK, get(router, "/admin", admin).Code)
}
