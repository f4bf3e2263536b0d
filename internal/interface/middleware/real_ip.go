package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client address.
const CtxRealIPKey = "real_ip"

// proxyHeaders are consulted in order; X-Forwarded-For contributes its left-most entry.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP resolves the client address once per request so rate-limit keys
// and logs agree on it.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	for _, h := range proxyHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		if first, _, found := strings.Cut(v, ","); found {
			v = first
		}
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

// ClientIP returns the address RealIP stored, falling back to gin's view
// and finally "unknown".
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
