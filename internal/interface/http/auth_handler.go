package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/internal/application"
	"github.com/oksasatya/booking-api/internal/domain/entity"
	"github.com/oksasatya/booking-api/internal/interface/middleware"
	"github.com/oksasatya/booking-api/pkg/helpers"
	"github.com/oksasatya/booking-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         entity.PublicUser `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, res.AccessToken, res.AccessTokenExpiry, res.RefreshToken, res.RefreshTokenExpiry)
	response.Success(c, http.StatusOK,
		loginResponse{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken, User: res.User},
		"Login successful",
		expiryMeta(res.AccessTokenExpiry, res.RefreshTokenExpiry),
	)
}

// Refresh POST /api/auth/refresh. The refresh token comes from the bearer
// header, the JSON body or the refresh_token cookie, in that order.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := refreshTokenFrom(c)
	if token == "" {
		response.Error[any](c, http.StatusUnauthorized, application.MsgInvalidRefreshToken, nil)
		return
	}
	res, err := h.Svc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, res.AccessToken, res.AccessTokenExpiry)
	response.Success(c, http.StatusOK, refreshResponse{AccessToken: res.AccessToken}, "Token refreshed",
		map[string]any{"access_expires_at": res.AccessTokenExpiry})
}

// Logout POST /api/auth/logout revokes the refresh token from the JSON body
// or the refresh_token cookie and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := refreshTokenFromBody(c)
	if token == "" {
		token, _ = c.Cookie(helpers.RefreshCookie)
	}
	if token != "" {
		if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
			fail(c, h.Logger, err)
			return
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out", nil)
}

// ChangePassword PATCH /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	msg, err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserIDFrom(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, messageResponse{Message: msg}, msg, nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "", nil)
}

func refreshTokenFrom(c *gin.Context) string {
	if t := middleware.BearerToken(c); t != "" {
		return t
	}
	if t := refreshTokenFromBody(c); t != "" {
		return t
	}
	return middleware.RefreshToken(c)
}

func refreshTokenFromBody(c *gin.Context) string {
	if c.Request.ContentLength == 0 {
		return ""
	}
	var body refreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}

func expiryMeta(access, refresh time.Time) map[string]any {
	return map[string]any{"access_expires_at": access, "refresh_expires_at": refresh}
}
