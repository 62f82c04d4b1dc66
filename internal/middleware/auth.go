package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/booking-engine/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextUserRole = "userRole"

	// ContextIdentity holds the customer identity of a public request, when
	// a valid customer token was sent.
	ContextIdentity = "identity"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseHMAC(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthMiddleware guards the staff API. Tokens carry sub, tenantId and role.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		claims, err := parseHMAC(tokenString, cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		tenantID, ok2 := claims["tenantId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextTenantID, uint(tenantID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// OptionalIdentity reads a customer token on public routes. A missing token
// leaves the request anonymous; a present but invalid one is rejected so a
// customer is never silently booked as a stranger.
func OptionalIdentity(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IdentityJWTSecret == "" || c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		claims, err := parseHMAC(tokenString, cfg.IdentityJWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || strings.TrimSpace(sub) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextIdentity, sub)
		c.Next()
	}
}

// IdentityFrom returns the customer identity set by OptionalIdentity, or "".
func IdentityFrom(c *gin.Context) string {
	return c.GetString(ContextIdentity)
}
