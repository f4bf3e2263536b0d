package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/booking-api/internal/access"
	"github.com/oksasatya/booking-api/internal/application"
	"github.com/oksasatya/booking-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// Authenticator resolves an access token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*access.Principal, error)
}

// Auth validates the access token (bearer header first, access_token cookie
// second) and stores the principal and userID in the Gin context.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, msg := http.StatusUnauthorized, "Unauthorized"
			var ae *application.AppError
			if errors.As(err, &ae) {
				msg = ae.Message
				if ae.Kind == application.KindInternal {
					status = http.StatusInternalServerError
				}
			}
			response.Abort(c, status, msg)
			return
		}
		c.Set(CtxPrincipalKey, p)
		c.Set(CtxUserIDKey, p.UserID)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Auth, if any.
func PrincipalFrom(c *gin.Context) (*access.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*access.Principal)
	return p, ok && p != nil
}

// UserIDFrom returns the authenticated user id or 0.
func UserIDFrom(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}
