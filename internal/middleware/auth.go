// internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context keys set by AuthRequired.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextClaims    = "claims"
	ContextPrincipal = "principal"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	Revoked(ctx context.Context, jti string) (bool, error)
}

func bearerClaims(c *gin.Context) (*utils.JWTClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, i18n.KeyAuthRequired
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, i18n.KeyAuthInvalidToken
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, i18n.KeyAuthInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, i18n.KeyAuthInvalidToken
	}
	return claims, ""
}

func setIdentity(c *gin.Context, claims *utils.JWTClaims) {
	userID := uuid.MustParse(claims.UserID)
	c.Set(ContextUserID, userID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
	c.Set(ContextPrincipal, scope.Principal{
		UserID: userID,
		Role:   models.UserRole(claims.Role),
	})
}

func AuthRequired(revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		claims, failure := bearerClaims(c)
		if claims == nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, failure))
			c.Abort()
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.Revoked(c.Request.Context(), claims.ID)
			if err != nil {
				// A denylist outage must not lock everybody out.
				logrus.WithError(err).Warn("Token denylist lookup failed")
			}
			if revoked {
				utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
				c.Abort()
				return
			}
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated role
// is one of roles. It must run after AuthRequired.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		if r, ok := role.(string); !ok || !allowed[r] {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := bearerClaims(c); claims != nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}
