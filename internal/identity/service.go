package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/Vickmut/v0-haven-craft-website-design/pkg/auth"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/auth/session"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/security"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgInvalidEmail   = "Invalid email address."
	msgEmailNotFound  = "Email not found. Please sign up first."
	msgWrongPassword  = "Incorrect password."
	msgEmailInUse     = "Email already in use. Please sign in instead."
	msgWeakPassword   = "Password must be at least 6 characters."
	msgGoogleAccount  = "This account uses Google sign-in."
	msgGoogleDisabled = "Google sign-in is not available."
	msgGoogleFailed   = "Google sign-in failed. Please try again."
	msgSessionExpired = "Session expired. Please sign in again."
)

// Service is the identity provider behind the auth endpoints.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	SignIn(ctx context.Context, req SignInRequest) (*Session, error)
	GoogleAuthURL() (url string, state string, err error)
	SignInWithGoogle(ctx context.Context, code string) (*Session, error)
	Refresh(ctx context.Context, req RefreshRequest) (*Session, error)
	SignOut(ctx context.Context, accessID string) error
	Me(ctx context.Context, uid string) (Identity, error)
}

type accountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByProviderSubject(ctx context.Context, subject string) (*models.Account, error)
	LinkProvider(ctx context.Context, id, subject string) error
	TouchSignIn(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type profileEnsurer interface {
	Ensure(ctx context.Context, p models.Profile) (bool, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID, userID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, userID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type ServiceParams struct {
	Accounts  accountRepository
	Profiles  profileEnsurer
	Sessions  sessionManager
	Google    GoogleProvider
	JWT       config.JWTConfig
	Passwords config.PasswordConfig
	Admin     config.AdminConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	accounts accountRepository
	profiles profileEnsurer
	sessions sessionManager
	google   GoogleProvider
	jwtCfg   config.JWTConfig
	hasher   *security.Hasher
	admin    config.AdminConfig
	logg     *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		accounts: params.Accounts,
		profiles: params.Profiles,
		sessions: params.Sessions,
		google:   params.Google,
		jwtCfg:   params.JWT,
		hasher:   security.NewHasher(params.Passwords),
		admin:    params.Admin,
		logg:     params.Logger,
		validate: validator.New(),
		now:      params.Now,
	}, nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	email, err := s.checkEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := security.CheckPassword(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgWeakPassword)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		Provider:     ProviderPassword,
		DisplayName:  displayNameFor("", email),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgEmailInUse)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}
	s.logg.Info(s.logg.WithUserID(ctx, account.ID), "account created")

	return s.startSession(ctx, account)
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (*Session, error) {
	email, err := s.checkEmail(req.Email)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgEmailNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	if account.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgGoogleAccount)
	}
	ok, err := s.hasher.Verify(req.Password, *account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgWrongPassword)
	}
	if s.hasher.NeedsRehash(*account.PasswordHash) {
		s.upgradeHash(ctx, account.ID, req.Password)
	}
	return s.startSession(ctx, account)
}

// upgradeHash re-hashes with the current Argon2 cost. Failure only logs; the
// old hash still verifies.
func (s *service) upgradeHash(ctx context.Context, accountID, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.accounts.UpdatePasswordHash(ctx, accountID, hash)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"account_id": accountID, "error": err.Error()}), "identity.rehash_failed")
	}
}

func (s *service) GoogleAuthURL() (string, string, error) {
	if s.google == nil {
		return "", "", pkgerrors.New(pkgerrors.CodeNotFound, msgGoogleDisabled)
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate oauth state")
	}
	state := base64.RawURLEncoding.EncodeToString(buf)
	return s.google.AuthCodeURL(state), state, nil
}

func (s *service) SignInWithGoogle(ctx context.Context, code string) (*Session, error) {
	if s.google == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgGoogleDisabled)
	}
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}
	user, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgGoogleFailed)
	}
	if !user.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgGoogleFailed)
	}

	account, err := s.googleAccount(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, account)
}

// googleAccount finds the account for a Google subject, linking an existing
// email account on first federated sign-in or creating a new one.
func (s *service) googleAccount(ctx context.Context, user GoogleUser) (*models.Account, error) {
	account, err := s.accounts.FindByProviderSubject(ctx, user.Subject)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup google account")
	}

	email := normalizeEmail(user.Email)
	account, err = s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.accounts.LinkProvider(ctx, account.ID, user.Subject); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link google account")
		}
		subject := user.Subject
		account.ProviderSubject = &subject
		return account, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	subject := user.Subject
	account = &models.Account{
		ID:              uuid.NewString(),
		Email:           email,
		Provider:        ProviderGoogle,
		ProviderSubject: &subject,
		DisplayName:     displayNameFor(user.Name, email),
		PhotoURL:        user.Picture,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create google account")
	}
	return account, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*Session, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgSessionExpired)
	}
	accessID, refreshToken, err := s.sessions.Rotate(ctx, claims.ID, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionExpired)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	account, err := s.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.sessions.Revoke(ctx, accessID)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionExpired)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	now := s.now()
	identity := fromAccount(account, s.roleFor(account.Email))
	access, err := s.mint(now, identity, accessID)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    s.expiry(now),
		User:         identity,
	}, nil
}

func (s *service) SignOut(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, uid string) (Identity, error) {
	account, err := s.accounts.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionExpired)
		}
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	return fromAccount(account, s.roleFor(account.Email)), nil
}

// startSession records the sign-in, ensures the profile document exists
// and mints a token pair.
func (s *service) startSession(ctx context.Context, account *models.Account) (*Session, error) {
	now := s.now()
	if err := s.accounts.TouchSignIn(ctx, account.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record sign-in")
	}
	account.LastSignInAt = &now

	if _, err := s.profiles.Ensure(ctx, models.Profile{
		UID:         account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		PhotoURL:    account.PhotoURL,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure profile")
	}

	identity := fromAccount(account, s.roleFor(account.Email))
	accessID := session.NewAccessID()
	access, err := s.mint(now, identity, accessID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sessions.Generate(ctx, accessID, account.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.expiry(now),
		User:         identity,
	}, nil
}

func (s *service) mint(now time.Time, identity Identity, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:      identity.UID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		JTI:         accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) expiry(now time.Time) time.Time {
	return now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute)
}

func (s *service) roleFor(email string) pkgAuth.Role {
	if s.admin.IsAdminEmail(email) {
		return pkgAuth.RoleAdmin
	}
	return pkgAuth.RoleCustomer
}

func (s *service) checkEmail(raw string) (string, error) {
	email := normalizeEmail(raw)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, msgInvalidEmail)
	}
	return email, nil
}
