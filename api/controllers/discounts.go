package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vickmut/v0-haven-craft-website-design/api/responses"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/metrics"
)

// DiscountGet returns the stored discount for an item. Items that were never
// discounted read as a zero discount.
func DiscountGet(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		update, ok, err := svc.Get(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !ok {
			update = discounts.Update{ItemID: itemID}
		}
		responses.WriteSuccess(w, update)
	}
}

// DiscountStream pushes discount changes for one item as server-sent events.
// The current value is sent first so clients never start blank.
func DiscountStream(svc discounts.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))

		updates, err := svc.Subscribe(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		current, ok, err := svc.Get(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !ok {
			current = discounts.Update{ItemID: itemID}
		}

		stream, err := openEventStream(w)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "discounts.stream_open_failed", err)
			}
			return
		}
		defer m.StreamOpened("discount")()

		if err := stream.send("discount", current); err != nil {
			return
		}

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case u, open := <-updates:
				if !open {
					return
				}
				if err := stream.send("discount", u); err != nil {
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
