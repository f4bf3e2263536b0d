package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/booking-api/internal/interface/http"
)

// AuthModule registers /auth routes.
// Public: register, login, refresh, logout. Protected: me, change-password.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
	// Limit guards the credential endpoints; nil disables it.
	Limit gin.HandlerFunc
	// UserLimit throttles change-password per signed-in user.
	UserLimit gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth, limit gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")

	public := g.Group("")
	if m.Limit != nil {
		public.Use(m.Limit)
	}
	public.POST("/register", m.Handler.Register)
	public.POST("/login", m.Handler.Login)
	public.POST("/refresh", m.Handler.Refresh)
	g.POST("/logout", m.Handler.Logout)

	protected := g.Group("", m.Auth)
	protected.GET("/me", m.Handler.Me)
	if m.UserLimit != nil {
		protected.PATCH("/change-password", m.UserLimit, m.Handler.ChangePassword)
	} else {
		protected.PATCH("/change-password", m.Handler.ChangePassword)
	}
}
