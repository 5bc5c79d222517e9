package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/types"
)

// UserIDKey is the gin context key carrying the authenticated user id.
const UserIDKey = "user_id"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware guards a route with bearer-token authentication. The
// Authorization header wins over the cookie: a present but malformed
// header is rejected without consulting cookies.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado - Formato inválido"})
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			token, _ = c.Cookie("token")
			if token == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado - Sin token"})
				c.Abort()
				return
			}
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.Message(err)})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
