package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// CanRandomize reports whether the token may rewrite encounter tables.
func (c *Claims) CanRandomize() bool {
	return c.Role == RoleEditor || c.Role == RoleAdmin
}

func ValidRole(role string) bool {
	switch role {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}
