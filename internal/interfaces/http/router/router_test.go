package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingRegistrar struct {
	registered bool
}

func (r *pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	r.registered = true
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	registrar := &pingRegistrar{}
	NewRouter(engine).Register(registrar).Setup()

	assert.True(t, registrar.registered)

	t.Run("routes live under the versioned prefix", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("unprefixed path is not served", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
