package discounts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
)

// Update is the discount state of one item, as stored and as broadcast.
type Update struct {
	ItemID          string    `json:"itemId"`
	Discount        int64     `json:"discount"`
	DiscountedPrice *int64    `json:"discountedPrice"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func fromModel(m models.ItemDiscount) Update {
	return Update{
		ItemID:          m.ItemID,
		Discount:        m.Discount,
		DiscountedPrice: m.DiscountedPrice,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func encodeUpdate(u Update) ([]byte, error) {
	return json.Marshal(u)
}

func decodeUpdate(data []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return Update{}, fmt.Errorf("decode discount update: %w", err)
	}
	if u.ItemID == "" {
		return Update{}, fmt.Errorf("decode discount update: missing itemId")
	}
	return u, nil
}
