package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/catalog"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
)

var (
	ErrPermissionDenied = errors.New("wishlist: permission denied")
	ErrUnavailable      = errors.New("wishlist: service unavailable")
	ErrFailed           = errors.New("wishlist: update failed")
)

const (
	msgPermission  = "Permission denied. Please check your authentication status."
	msgUnavailable = "Service temporarily unavailable. Please try again later."
	msgFailed      = "Failed to update wishlist. Please try again."
)

// Store is the remote wishlist persistence; *profiles.Repository implements it.
type Store interface {
	WishlistIDs(ctx context.Context, uid string) ([]string, error)
	AddWishlistItem(ctx context.Context, uid, itemID string) error
	RemoveWishlistItem(ctx context.Context, uid, itemID string) error
	CountWishlist(ctx context.Context, uid string) (int64, error)
}

// Catalog resolves wishlist ids to items.
type Catalog interface {
	GetAll(ctx context.Context) ([]catalog.Item, error)
	GetByID(ctx context.Context, id string) (catalog.Item, bool, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Store   Store
	Catalog Catalog
}

// Service exposes wishlist operations for a signed-in user.
type Service interface {
	List(ctx context.Context, uid string) ([]string, error)
	Items(ctx context.Context, uid string) ([]catalog.Item, error)
	Count(ctx context.Context, uid string) (int, error)
	Add(ctx context.Context, uid, itemID string) error
	Remove(ctx context.Context, uid, itemID string) error
}

type service struct {
	store   Store
	catalog Catalog
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist store is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	return &service{store: params.Store, catalog: params.Catalog}, nil
}

// List returns the wishlist ids; a missing profile is an empty list.
func (s *service) List(ctx context.Context, uid string) ([]string, error) {
	if err := requireUID(uid); err != nil {
		return nil, err
	}
	ids, err := s.store.WishlistIDs(ctx, uid)
	if err != nil {
		return nil, remoteError(err, "load wishlist")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Items resolves the wishlist against the catalog. Ids whose item has since
// been deleted are skipped.
func (s *service) Items(ctx context.Context, uid string) ([]catalog.Item, error) {
	ids, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}
	byID := make(map[string]catalog.Item, len(all))
	for _, it := range all {
		byID[it.ID] = it
	}
	items := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (s *service) Count(ctx context.Context, uid string) (int, error) {
	if err := requireUID(uid); err != nil {
		return 0, err
	}
	n, err := s.store.CountWishlist(ctx, uid)
	if err != nil {
		return 0, remoteError(err, "count wishlist")
	}
	return int(n), nil
}

// Add union-appends itemID, creating the profile on first use.
func (s *service) Add(ctx context.Context, uid, itemID string) error {
	if err := requireUID(uid); err != nil {
		return err
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if _, found, err := s.catalog.GetByID(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	} else if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if err := s.store.AddWishlistItem(ctx, uid, itemID); err != nil {
		return remoteError(err, "add wishlist item")
	}
	return nil
}

// Remove is a no-op when itemID is not on the wishlist.
func (s *service) Remove(ctx context.Context, uid, itemID string) error {
	if err := requireUID(uid); err != nil {
		return err
	}
	if err := s.store.RemoveWishlistItem(ctx, uid, strings.TrimSpace(itemID)); err != nil {
		return remoteError(err, "remove wishlist item")
	}
	return nil
}

func requireUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return nil
}

// remoteError maps a store failure onto the three user-facing outcomes. The
// returned error matches the package sentinel with errors.Is.
func remoteError(err error, op string) error {
	switch db.Classify(err) {
	case db.FaultPermission:
		return pkgerrors.Wrap(pkgerrors.CodePermission, fmt.Errorf("%s: %w: %w", op, ErrPermissionDenied, err), msgPermission)
	case db.FaultUnavailable:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err), msgUnavailable)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("%s: %w: %w", op, ErrFailed, err), msgFailed).Expose()
	}
}
