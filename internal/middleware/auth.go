package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/helioscare/clinic-api/internal/handler"
	authService "github.com/helioscare/clinic-api/internal/service/auth"
)

type AuthMiddleware struct {
	authService authService.AuthServicer
}

func NewAuthMiddleware(service authService.AuthServicer) *AuthMiddleware {
	return &AuthMiddleware{authService: service}
}

// Authenticate verifies the bearer token and stores the resolved session in
// the request context. Clinic membership is resolved here so downstream
// gates only inspect the session.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		session, err := m.authService.ResolveSession(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(handler.SessionKey, session)
		c.Next()
	}
}
