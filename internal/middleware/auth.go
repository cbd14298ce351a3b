package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cortexamp/api/config"
	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)

// Auth validates the bearer token and stores the caller's identity on the
// request context. Missing or invalid tokens are rejected with 401.
func Auth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing or malformed authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing or malformed authorization header"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid or expired token"})
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid token claims"})
			return
		}

		isAdmin, _ := claims["is_admin"].(bool)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextIsAdmin, isAdmin)
		c.Next()
	}
}

// RequireAdmin gates admin routes. The role is re-checked against the stored
// profile so a token minted before a demotion stops working immediately.
func RequireAdmin(profileRepo repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
			return
		}

		profile, err := profileRepo.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "account no longer exists"})
				return
			}
			log.Error().Err(err).Uint("userID", userID).Msg("Admin check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "error verifying permissions"})
			return
		}
		if !profile.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "admin access required"})
			return
		}

		c.Next()
	}
}

// UserID reads the authenticated user id off the context; zero means
// unauthenticated.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
