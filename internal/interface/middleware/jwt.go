package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/booking-api/pkg/helpers"
)

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// AccessToken prefers the bearer header over the access_token cookie.
func AccessToken(c *gin.Context) string {
	if t := BearerToken(c); t != "" {
		return t
	}
	t, _ := c.Cookie(helpers.AccessCookie)
	return t
}

// RefreshToken prefers the bearer header over the refresh_token cookie.
func RefreshToken(c *gin.Context) string {
	if t := BearerToken(c); t != "" {
		return t
	}
	t, _ := c.Cookie(helpers.RefreshCookie)
	return t
}
