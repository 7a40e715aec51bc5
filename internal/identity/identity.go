package identity

import (
	"strings"
	"time"

	pkgAuth "github.com/Vickmut/v0-haven-craft-website-design/pkg/auth"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Identity is the signed-in user as the API reports it.
type Identity struct {
	UID         string       `json:"uid"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName"`
	PhotoURL    string       `json:"photoURL,omitempty"`
	Role        pkgAuth.Role `json:"role"`
}

// Session is returned by every successful sign-in or refresh.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         Identity  `json:"user"`
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignInRequest struct {
	Code string `json:"code" validate:"required"`
}

type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// FromClaims rebuilds the identity carried by a verified access token.
func FromClaims(c *pkgAuth.AccessTokenClaims) Identity {
	if c == nil {
		return Identity{}
	}
	return Identity{UID: c.UserID, Email: c.Email, DisplayName: c.DisplayName, Role: c.Role}
}

func fromAccount(a *models.Account, role pkgAuth.Role) Identity {
	return Identity{
		UID:         a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhotoURL:    a.PhotoURL,
		Role:        role,
	}
}

// displayNameFor falls back to the local part of the email address.
func displayNameFor(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
