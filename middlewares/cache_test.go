package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func TestCacheServesRepeatedGets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, time.Minute)

	hits := 0
	router := gin.New()
	router.Use(Cache(store, time.Minute))
	router.GET("/catalog", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/catalog", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"hits":1`)
	}
	assert.Equal(t, 1, hits)
}

func TestCacheKeysIncludeQueryString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, time.Minute)

	router := gin.New()
	router.Use(Cache(store, time.Minute))
	router.GET("/services", func(c *gin.Context) {
		c.String(http.StatusOK, "category=%s", c.Query("category_id"))
	})

	req, _ := http.NewRequest("GET", "/services?category_id=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "category=1", w.Body.String())

	req, _ = http.NewRequest("GET", "/services?category_id=2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "category=2", w.Body.String())
}

func TestCacheSkipsWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, time.Minute)

	hits := 0
	router := gin.New()
	router.Use(Cache(store, time.Minute))
	router.POST("/services", func(c *gin.Context) {
		hits++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("POST", "/services", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, hits)
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, time.Minute)

	hits := 0
	router := gin.New()
	router.Use(Cache(store, time.Minute))
	router.GET("/flaky", func(c *gin.Context) {
		hits++
		if hits == 1 {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/flaky", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, hits)
}
