package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
	"github.com/vyservice/ops-api/pkg/response"
)

// ContextUserKey is the gin context key holding the verified claims.
const ContextUserKey = "auth_claims"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Auth validates the bearer token and stores the claims on the context.
func Auth(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authorization header required"))
			c.Abort()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Bearer token required"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the authenticated claims, or nil on an
// unauthenticated route.
func ClaimsFrom(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAdmin rejects any non-admin token.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCard rejects tokens that do not carry the feature card. Admin
// tokens carry every card implicitly.
func RequireCard(card string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.HasCard(card) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "You do not have access to this feature"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin allows an employee to act on their own record and
// the admin to act on anyone's. idParam names the path parameter
// holding the employee id.
func RequireSelfOrAdmin(idParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authentication required"))
			c.Abort()
			return
		}
		if claims.Role != models.RoleAdmin && claims.UserID != c.Param(idParam) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "You can only access your own record"))
			c.Abort()
			return
		}
		c.Next()
	}
}
