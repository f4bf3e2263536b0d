package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/booking-api/pkg/response"
)

// Module registers a feature's routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects API-wide middleware and modules, then mounts them
// under a single prefix.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts the API under /api.
func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module. Unknown routes answer with the error
// envelope instead of gin's plain-text 404.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.HandleMethodNotAllowed = true
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path), nil)
	})
	r.Engine.NoMethod(func(c *gin.Context) {
		response.Error[any](c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
}
