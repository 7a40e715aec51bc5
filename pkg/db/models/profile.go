package models

import "time"

// Profile is the remote user record keyed by uid.
type Profile struct {
	UID         string    `gorm:"column:uid;primaryKey"`
	Email       string    `gorm:"column:email;not null;default:''"`
	DisplayName string    `gorm:"column:display_name;not null;default:''"`
	PhotoURL    string    `gorm:"column:photo_url;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// WishlistEntry is one member of a profile's wishlist. The (uid, item_id)
// pair is unique; ID order is insertion order.
type WishlistEntry struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UID       string    `gorm:"column:uid;not null;uniqueIndex:wishlist_entries_uid_item_key"`
	ItemID    string    `gorm:"column:item_id;not null;uniqueIndex:wishlist_entries_uid_item_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
