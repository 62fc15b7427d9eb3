package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole distinguishes the built-in admin from employee accounts.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID               string   `json:"id,omitempty"`
	Username         string   `json:"username"`
	AllowedCards     []string `json:"allowedCards,omitempty"`
	CanRemoveRepairs bool     `json:"canRemoveRepairs"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string   `json:"token"`
	Role      UserRole `json:"role"`
	ExpiresIn int64    `json:"expiresIn"`
	User      UserInfo `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID           string   `json:"user_id,omitempty"`
	Username         string   `json:"username"`
	Role             UserRole `json:"role"`
	AllowedCards     []string `json:"allowed_cards,omitempty"`
	CanRemoveRepairs bool     `json:"can_remove_repairs"`
	jwt.RegisteredClaims
}

// HasCard reports whether the token grants a feature card. Admin tokens
// implicitly carry every card.
func (c *JWTClaims) HasCard(card string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	for _, allowed := range c.AllowedCards {
		if allowed == card {
			return true
		}
	}
	return false
}
