package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/booking-api/internal/access"
	"github.com/oksasatya/booking-api/pkg/response"
)

// RequireRoles enforces the role table for the matched route. It must run
// after Auth. Routes absent from the table only need authentication.
func RequireRoles(table access.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		route, ok := table.Lookup(c.Request.Method, c.FullPath())
		if !ok {
			c.Next()
			return
		}
		p, _ := PrincipalFrom(c)
		if !access.Authorize(route.Roles, p) {
			response.Abort(c, http.StatusForbidden, "Forbidden resource")
			return
		}
		c.Next()
	}
}
