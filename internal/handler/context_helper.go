package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vyservice/ops-api/internal/middleware"
	"github.com/vyservice/ops-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFrom(c)
}

func isAdmin(claims *models.JWTClaims) bool {
	return claims != nil && claims.Role == models.RoleAdmin
}
