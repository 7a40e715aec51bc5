package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Vickmut/v0-haven-craft-website-design/api/responses"
	"github.com/Vickmut/v0-haven-craft-website-design/api/validators"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/catalog"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/pricing"
)

// CatalogEditor is the full *catalog.Store surface the admin screens use.
type CatalogEditor interface {
	CatalogReader
	Add(ctx context.Context, in catalog.Item) (catalog.Item, error)
	Update(ctx context.Context, in catalog.Item) (catalog.Item, error)
	Remove(ctx context.Context, id string) (bool, error)
}

type itemPayload struct {
	Name            string `json:"name" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	OriginalPrice   string `json:"originalPrice" validate:"required"`
	DiscountedPrice string `json:"discountedPrice"`
	Category        string `json:"category" validate:"required"`
	Image           string `json:"image" validate:"required"`
	HasVideo        bool   `json:"hasVideo"`
	VideoURL        string `json:"videoUrl"`
}

func (p itemPayload) toItem(id string) catalog.Item {
	return catalog.Item{
		ID:              id,
		Name:            validators.SanitizeString(p.Name, 200),
		Description:     validators.SanitizeString(p.Description, 5000),
		OriginalPrice:   p.OriginalPrice,
		DiscountedPrice: p.DiscountedPrice,
		Category:        p.Category,
		Image:           p.Image,
		HasVideo:        p.HasVideo,
		VideoURL:        p.VideoURL,
	}
}

type discountPayload struct {
	Amount *int64 `json:"amount" validate:"required,gte=0"`
}

func AdminListItems(store CatalogEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		items, err := store.GetAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminCreateItem(store CatalogEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var body itemPayload
		if err := validators.DecodeJSONBodyLimit(r, &body, validators.MaxItemBodyBytes); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := store.Add(ctx, body.toItem(""))
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminUpdateItem(store CatalogEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "itemId"))
		var body itemPayload
		if err := validators.DecodeJSONBodyLimit(r, &body, validators.MaxItemBodyBytes); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := store.Update(ctx, body.toItem(id))
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminDeleteItem is idempotent: deleting an unknown id succeeds with
// removed=false.
func AdminDeleteItem(store CatalogEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		removed, err := store.Remove(ctx, strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": removed})
	}
}

// AdminSetDiscount checks 0 <= amount < original price against the catalog
// before writing the remote discount.
func AdminSetDiscount(store CatalogReader, svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil || svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var body discountPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		item, ok, err := store.GetByID(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found."))
			return
		}
		original, err := pricing.Parse(item.OriginalPrice)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Item has no valid price to discount."))
			return
		}
		if !decimal.NewFromInt(*body.Amount).LessThan(original) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Discount must be less than current price").
				WithDetails(map[string]string{"amount": "must be less than " + original.String()}))
			return
		}

		update, err := svc.SetDiscount(ctx, itemID, *body.Amount)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, update)
	}
}

func AdminClearDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		update, err := svc.ClearDiscount(ctx, strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, update)
	}
}
