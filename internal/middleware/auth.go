package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opentrees/api/internal/auth"
)

// Context keys populated by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxClaims   = "claims"
)

// JWTAuth extracts and verifies the bearer token from
// "Authorization: Bearer <token>" and injects the identity claims into the
// request context.
func JWTAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RequireRole checks the authenticated role against an exact match. Admin
// does not implicitly satisfy user-gated routes or vice versa.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxClaims)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}
		if err := auth.Authorize(value.(*auth.Claims), role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "requires " + role + " role"})
			c.Abort()
			return
		}
		c.Next()
	}
}
