package catalog

import (
	"strings"
	"time"
)

// Category names are the canonical, display-cased forms stored on items.
const (
	CategoryLivingRoom = "Living Room"
	CategoryBedroom    = "Bedroom"
	CategoryOffice     = "Office"
	CategoryOutdoor    = "Outdoor"
	CategoryDining     = "Dining"
)

var categories = []string{
	CategoryLivingRoom,
	CategoryBedroom,
	CategoryOffice,
	CategoryOutdoor,
	CategoryDining,
}

// Categories returns the fixed category list in display order.
func Categories() []string {
	return append([]string(nil), categories...)
}

// CanonicalCategory maps any casing of a known category onto its stored form.
func CanonicalCategory(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range categories {
		if strings.EqualFold(c, raw) {
			return c, true
		}
	}
	return "", false
}

// RoomSlug is the URL-safe section name for a category ("Living Room" -> "living-room").
func RoomSlug(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

// Item is one catalog listing. JSON names match the persisted slot format.
type Item struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           string     `json:"price"`
	OriginalPrice   string     `json:"originalPrice"`
	DiscountedPrice string     `json:"discountedPrice"`
	Category        string     `json:"category"`
	Image           string     `json:"image"`
	HasVideo        bool       `json:"hasVideo"`
	VideoURL        string     `json:"videoUrl,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Room is a curated section of the storefront.
type Room struct {
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

func timePtr(t time.Time) *time.Time {
	return &t
}
