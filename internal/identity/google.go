package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var errGoogleDisabled = errors.New("google sign-in is not configured")

// GoogleUser is the subset of the OpenID userinfo document we use.
type GoogleUser struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider turns an authorization code into a verified Google user.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (GoogleUser, error)
}

type GoogleOAuth struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewGoogleOAuth(cfg config.GoogleOAuthConfig) (*GoogleOAuth, error) {
	if !cfg.Enabled() {
		return nil, errGoogleDisabled
	}
	return newGoogleOAuth(&oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, googleUserInfoURL), nil
}

func newGoogleOAuth(conf *oauth2.Config, userInfoURL string) *GoogleOAuth {
	return &GoogleOAuth{conf: conf, userInfoURL: userInfoURL}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (GoogleUser, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("exchange google code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleUser{}, err
	}
	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GoogleUser{}, fmt.Errorf("fetch google userinfo: status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return GoogleUser{}, fmt.Errorf("decode google userinfo: %w", err)
	}
	if user.Subject == "" || user.Email == "" {
		return GoogleUser{}, errors.New("google userinfo missing subject or email")
	}
	return user, nil
}
