package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
	"github.com/yungbote/rsvp-backend/internal/platform/ctxutil"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
	"github.com/yungbote/rsvp-backend/internal/services/auth"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService auth.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService auth.AuthService) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAdmin rejects requests without a valid admin bearer token.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			code := apierr.CodeOf(err, "unauthorized")
			am.log.Debug("admin token rejected", "code", code, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": code},
			})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		ad := ctxutil.GetAdminData(ctx)
		if ad == nil || ad.Subject != auth.AdminSubject {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
