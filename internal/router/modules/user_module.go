package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/booking-api/internal/access"
	"github.com/oksasatya/booking-api/internal/domain/entity"
	handlers "github.com/oksasatya/booking-api/internal/interface/http"
	"github.com/oksasatya/booking-api/internal/interface/middleware"
)

// UserModule registers the admin user management routes under /users.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

// UserRoutes is the role table for the user routes mounted under base.
func UserRoutes(base string) access.Table {
	admin := entity.NewRoleSet(entity.RoleAdmin)
	return access.Table{
		{Method: http.MethodGet, Path: base + "/users", Roles: admin},
		{Method: http.MethodPost, Path: base + "/users", Roles: admin},
		{Method: http.MethodGet, Path: base + "/users/search", Roles: admin},
		{Method: http.MethodGet, Path: base + "/users/by-email/:email", Roles: admin},
		{Method: http.MethodGet, Path: base + "/users/:id", Roles: admin},
		{Method: http.MethodPatch, Path: base + "/users/:id", Roles: admin},
		{Method: http.MethodDelete, Path: base + "/users/:id", Roles: admin},
	}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users", m.Auth, middleware.RequireRoles(UserRoutes(rg.BasePath())))
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.GET("/search", m.Handler.Search)
	g.GET("/by-email/:email", m.Handler.GetByEmail)
	g.GET("/:id", m.Handler.Get)
	g.PATCH("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
