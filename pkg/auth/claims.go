package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the storefront role stamped into access tokens at sign-in.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      string
	Email       string
	DisplayName string
	Role        Role
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin requires both the signed admin role and the configured admin
// email, so a token minted before the admin email changed stops working.
func (c *AccessTokenClaims) IsAdmin(adminEmail string) bool {
	if c == nil || c.Role != RoleAdmin {
		return false
	}
	want := strings.TrimSpace(adminEmail)
	return want != "" && want == strings.TrimSpace(c.Email)
}

func (c *AccessTokenClaims) check() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user id is required")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("invalid role %q", c.Role)
	}
	return nil
}
