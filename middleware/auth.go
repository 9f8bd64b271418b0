package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/juanctr3/servicios-app/apperrors"
)

// RequireAuth validates the bearer token and stashes the caller's
// identity (user_id, email, role) in the gin context for the handlers.
func RequireAuth(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
		c.Abort()
		return
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido o expirado"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido o expirado"})
		c.Abort()
		return
	}

	c.Set("user_id", claims["user_id"])
	c.Set("email", claims["email"])
	c.Set("role", claims["role"])

	c.Next()
}

// RequireRole layers a role check on top of RequireAuth. Admin-only
// routes use RequireRole(models.RoleAdmin) at the routing layer instead
// of per-handler branching.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			apperrors.Respond(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
