package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vickmut/v0-haven-craft-website-design/api/responses"
	"github.com/Vickmut/v0-haven-craft-website-design/api/validators"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/catalog"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/kvstore"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/metrics"
)

// CatalogReader is the read side of *catalog.Store.
type CatalogReader interface {
	GetAll(ctx context.Context) ([]catalog.Item, error)
	GetByCategory(ctx context.Context, category string) ([]catalog.Item, error)
	GetByID(ctx context.Context, id string) (catalog.Item, bool, error)
	GetRecentlyAdded(ctx context.Context, n int) ([]catalog.Item, error)
	Rooms(ctx context.Context) ([]catalog.Room, error)
	Subscribe(fn catalog.Observer) func()
}

const catalogEventBuffer = 32

// CatalogItems lists the catalog, optionally narrowed to one category.
func CatalogItems(store CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var (
			items []catalog.Item
			err   error
		)
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			items, err = store.GetByCategory(ctx, category)
		} else {
			items, err = store.GetAll(ctx)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CatalogRecent returns the newest items.
func CatalogRecent(store CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultRecentLimit, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		items, err := store.GetRecentlyAdded(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CatalogItem(store CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "itemId"))
		item, ok, err := store.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found."))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func CatalogRooms(store CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		rooms, err := store.Rooms(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, catalogError(err))
			return
		}
		responses.WriteSuccess(w, rooms)
	}
}

func CatalogCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, catalog.Categories())
	}
}

// CatalogEvents streams change events so open pages can refresh their
// listings. Slow clients lose events rather than stall writers.
func CatalogEvents(store CatalogReader, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		events := make(chan catalog.ChangeEvent, catalogEventBuffer)
		unsubscribe := store.Subscribe(func(ev catalog.ChangeEvent) {
			select {
			case events <- ev:
			default:
			}
		})
		defer unsubscribe()

		stream, err := openEventStream(w)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "catalog.stream_open_failed", err)
			}
			return
		}
		defer m.StreamOpened("catalog")()

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if err := stream.send(string(ev.Kind), ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := stream.heartbeat(); err != nil {
					return
				}
			}
		}
	}
}

func catalogError(err error) error {
	var invalid *catalog.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &invalid):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Please fix the highlighted fields.").WithDetails(invalid.Fields)
	case errors.Is(err, catalog.ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Item not found.")
	case errors.Is(err, catalog.ErrCorrupt):
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Stored catalog is unreadable. Changes were not saved.").Expose()
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "Storage is full. Use smaller media or remove some items.").Expose()
	case errors.Is(err, catalog.ErrPersistence):
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "Catalog storage is unavailable. Changes were not saved.").Expose()
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog operation failed")
	}
}
