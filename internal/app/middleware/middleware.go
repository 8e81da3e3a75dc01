package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/machimap/machimap/internal/app/domain/auth"
	"github.com/machimap/machimap/internal/app/models"
)

// Typed context keys.
type contextKey string

const (
	UserContextKey contextKey = "user"
	UserIDKey      contextKey = "userID"
)

// CORSMiddleware handles CORS headers.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, Stripe-Signature")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// AuthMiddleware validates the Authorization bearer token and stores the
// caller's identity in the request context. Requests without a valid token
// are rejected.
func AuthMiddleware(jwtService *auth.JWTService, cfg auth.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c, jwtService, cfg)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the caller's identity when a valid token is
// present but lets anonymous requests through.
func OptionalAuthMiddleware(jwtService *auth.JWTService, cfg auth.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c, jwtService, cfg); ok {
			setUserContext(c, claims)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, jwtService *auth.JWTService, cfg auth.JWTConfig) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := jwtService.ValidateToken(cfg, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setUserContext(c *gin.Context, claims *auth.Claims) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}
	c.Set(string(UserIDKey), claims.UserID)
	c.Set(string(UserContextKey), &models.User{
		ID:       id,
		Username: claims.Username,
		Email:    claims.Email,
	})
}

// GetUserIDFromContext returns the authenticated caller's id, or uuid.Nil
// for anonymous requests.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	raw, exists := c.Get(string(UserIDKey))
	if !exists {
		return uuid.Nil
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetUserFromContext extracts the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) *models.User {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil
	}

	return userModel
}
