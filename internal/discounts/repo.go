package discounts

import (
	"context"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/repo"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores per-item discount documents.
type Repository struct {
	repo.Base
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Base: repo.NewBase(db),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Upsert writes the discount for itemID. A zero amount stores a NULL
// discounted price.
func (r *Repository) Upsert(ctx context.Context, itemID string, amount int64) (models.ItemDiscount, error) {
	row := models.ItemDiscount{
		ItemID:    itemID,
		Discount:  amount,
		UpdatedAt: r.now(),
	}
	if amount > 0 {
		v := amount
		row.DiscountedPrice = &v
	}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"discount", "discounted_price", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return models.ItemDiscount{}, err
	}
	return row, nil
}

// Find returns the discount row for itemID and whether it exists.
func (r *Repository) Find(ctx context.Context, itemID string) (models.ItemDiscount, bool, error) {
	return repo.Lookup(func(row *models.ItemDiscount) error {
		return r.DB(ctx).Where("item_id = ?", itemID).Take(row).Error
	})
}
