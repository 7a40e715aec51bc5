package identity

import (
	"context"
	"errors"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/repo"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

// AccountRepository persists sign-in accounts.
type AccountRepository struct {
	repo.Base
}

func NewAccountRepository(conn *gorm.DB) *AccountRepository {
	return &AccountRepository{Base: repo.NewBase(conn)}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	err := r.DB(ctx).Create(account).Error
	if db.IsUniqueViolation(err, "") {
		return ErrEmailTaken
	}
	return err
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.take(ctx, "email = ?", normalizeEmail(email))
}

func (r *AccountRepository) FindByProviderSubject(ctx context.Context, subject string) (*models.Account, error) {
	return r.take(ctx, "provider_subject = ?", subject)
}

// LinkProvider attaches a federated subject to an existing account.
func (r *AccountRepository) LinkProvider(ctx context.Context, id, subject string) error {
	return r.DB(ctx).Model(&models.Account{}).Where("id = ?", id).Update("provider_subject", subject).Error
}

func (r *AccountRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return r.DB(ctx).Model(&models.Account{}).Where("id = ?", id).Update("last_sign_in_at", at).Error
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.DB(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *AccountRepository) take(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	if err := r.DB(ctx).Where(query, arg).Take(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
