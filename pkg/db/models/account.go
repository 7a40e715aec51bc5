package models

import "time"

// Account is a sign-in identity. PasswordHash is nil for accounts that only
// ever signed in through a federated provider.
type Account struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Email           string     `gorm:"column:email;not null;uniqueIndex:accounts_email_key"`
	PasswordHash    *string    `gorm:"column:password_hash"`
	Provider        string     `gorm:"column:provider;not null"`
	ProviderSubject *string    `gorm:"column:provider_subject;uniqueIndex:accounts_provider_subject_key"`
	DisplayName     string     `gorm:"column:display_name;not null;default:''"`
	PhotoURL        string     `gorm:"column:photo_url;not null;default:''"`
	LastSignInAt    *time.Time `gorm:"column:last_sign_in_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
