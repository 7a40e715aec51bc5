// Package profiles stores the remote user record: identity fields plus the
// wishlist, exposed as one document per uid.
package profiles

import (
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
)

// Document is the API shape of a profile.
type Document struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	Wishlist    []string  `json:"wishlist"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newDocument(p models.Profile, wishlist []string) Document {
	if wishlist == nil {
		wishlist = []string{}
	}
	return Document{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Wishlist:    wishlist,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
