package profiles

import (
	"context"
	"strings"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/repo"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists profiles and their wishlist membership rows.
type Repository struct {
	repo.Base
	now func() time.Time
}

// NewRepository constructs a profile repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Base: repo.NewBase(db),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Find returns the profile document for uid, or gorm.ErrRecordNotFound.
func (r *Repository) Find(ctx context.Context, uid string) (Document, error) {
	var profile models.Profile
	if err := r.DB(ctx).Where("uid = ?", uid).Take(&profile).Error; err != nil {
		return Document{}, err
	}
	ids, err := r.WishlistIDs(ctx, uid)
	if err != nil {
		return Document{}, err
	}
	return newDocument(profile, ids), nil
}

// Ensure creates the profile when it does not exist yet and reports whether it
// did. Existing profiles only get empty identity fields back-filled.
func (r *Repository) Ensure(ctx context.Context, p models.Profile) (bool, error) {
	if strings.TrimSpace(p.UID) == "" {
		return false, gorm.ErrInvalidValue
	}
	return r.ensure(r.DB(ctx), p)
}

func (r *Repository) ensure(tx *gorm.DB, p models.Profile) (bool, error) {
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	fill := map[string]any{}
	if p.Email != "" {
		fill["email"] = gorm.Expr("CASE WHEN email = '' THEN ? ELSE email END", p.Email)
	}
	if p.DisplayName != "" {
		fill["display_name"] = gorm.Expr("CASE WHEN display_name = '' THEN ? ELSE display_name END", p.DisplayName)
	}
	if p.PhotoURL != "" {
		fill["photo_url"] = gorm.Expr("CASE WHEN photo_url = '' THEN ? ELSE photo_url END", p.PhotoURL)
	}
	if len(fill) == 0 {
		return false, nil
	}
	fill["updated_at"] = now
	return false, tx.Model(&models.Profile{}).Where("uid = ?", p.UID).Updates(fill).Error
}

// AddWishlistItem creates the profile if needed and union-appends itemID.
// Adding an item twice leaves a single entry.
func (r *Repository) AddWishlistItem(ctx context.Context, uid, itemID string) error {
	if uid == "" || itemID == "" {
		return gorm.ErrInvalidValue
	}
	return r.Tx(ctx, func(tx *gorm.DB) error {
		if _, err := r.ensure(tx, models.Profile{UID: uid}); err != nil {
			return err
		}
		now := r.now()
		if err := tx.Exec(
			`INSERT INTO wishlist_entries (uid, item_id, created_at) VALUES (?, ?, ?) ON CONFLICT (uid, item_id) DO NOTHING`,
			uid, itemID, now,
		).Error; err != nil {
			return err
		}
		return touch(tx, uid, now)
	})
}

// RemoveWishlistItem deletes itemID from the wishlist; absent entries and
// absent profiles are not errors.
func (r *Repository) RemoveWishlistItem(ctx context.Context, uid, itemID string) error {
	return r.Tx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("uid = ? AND item_id = ?", uid, itemID).Delete(&models.WishlistEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return touch(tx, uid, r.now())
	})
}

// WishlistIDs returns item ids in insertion order.
func (r *Repository) WishlistIDs(ctx context.Context, uid string) ([]string, error) {
	ids := []string{}
	err := r.DB(ctx).
		Model(&models.WishlistEntry{}).
		Where("uid = ?", uid).
		Order("id ASC").
		Pluck("item_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountWishlist returns the number of wishlist entries for uid.
func (r *Repository) CountWishlist(ctx context.Context, uid string) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.WishlistEntry{}).Where("uid = ?", uid).Count(&count).Error
	return count, err
}

func touch(tx *gorm.DB, uid string, now time.Time) error {
	return tx.Model(&models.Profile{}).Where("uid = ?", uid).UpdateColumn("updated_at", now).Error
}

// IsNotFound reports whether err is the repository's missing-record error.
func IsNotFound(err error) bool {
	return repo.IsNotFound(err)
}
