// Package catalog owns the storefront's item collection. The whole collection
// lives as one JSON array under a single key of a kvstore slot; every mutation
// rewrites that array in one Set.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/kvstore"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultKey         = "havencraft-furniture-items"
	DefaultRecentLimit = 8
	idPrefix           = "item-"
)

var (
	ErrNotFound = errors.New("catalog item not found")
	// ErrPersistence wraps slot failures (quota, unavailable) on read or write.
	ErrPersistence = errors.New("catalog storage failed")
	// ErrCorrupt means the slot holds something that is not an item array.
	ErrCorrupt = errors.New("catalog data is corrupt")
)

// Recorder receives persistence metrics. *metrics.CatalogMetrics satisfies it.
type Recorder interface {
	ObservePersist(op string, took time.Duration, err error)
	SetItemCount(n int)
}

type Options struct {
	Slot    kvstore.Store
	Key     string
	Logger  *logger.Logger
	Metrics Recorder
	Media   MediaLimits
	Now     func() time.Time
	NewID   func() string
}

type Store struct {
	slot     kvstore.Store
	key      string
	logg     *logger.Logger
	metrics  Recorder
	media    MediaLimits
	now      func() time.Time
	newID    func() string
	seedTime time.Time

	mu        sync.Mutex
	observers observers
}

func NewStore(opts Options) (*Store, error) {
	if opts.Slot == nil {
		return nil, errors.New("catalog slot is required")
	}
	if strings.TrimSpace(opts.Key) == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		slot:     opts.Slot,
		key:      opts.Key,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
		media:    opts.Media.withDefaults(),
		now:      opts.Now,
		newID:    opts.NewID,
		seedTime: opts.Now(),
	}, nil
}

// Subscribe registers fn for change events and returns its unsubscribe func.
func (s *Store) Subscribe(fn Observer) func() {
	return s.observers.add(fn)
}

// SubscriberCount reports how many observers are currently registered.
func (s *Store) SubscriberCount() int {
	return s.observers.count()
}

// Initialize writes the default collection when the slot is empty.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	_, stored, err := s.load(ctx)
	if err != nil || stored {
		s.mu.Unlock()
		return err
	}
	items := DefaultItems(s.now())
	if err := s.persist(ctx, "seed", items); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logg.Info(s.logg.WithField(ctx, "count", len(items)), "catalog.seeded")
	s.observers.emit(ChangeEvent{Kind: ChangeSeeded, At: s.now()})
	return nil
}

// GetAll returns every item in stored order. An empty slot reads as the
// default collection without writing it.
func (s *Store) GetAll(ctx context.Context) ([]Item, error) {
	items, _, err := s.load(ctx)
	if errors.Is(err, ErrCorrupt) {
		s.logg.Error(ctx, "catalog.read_corrupt", err)
		return DefaultItems(s.seedTime), nil
	}
	return items, err
}

// GetByCategory matches category case-insensitively.
func (s *Store) GetByCategory(ctx context.Context, category string) ([]Item, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(category)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Category, want) {
			out = append(out, it)
		}
	}
	return out, nil
}

// GetByID reports found=false, not an error, for unknown ids.
func (s *Store) GetByID(ctx context.Context, id string) (Item, bool, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return Item{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}

// GetRecentlyAdded returns at most n items, newest first. Items without a
// creation time sort last; ties keep stored order. n <= 0 means 8.
func (s *Store) GetRecentlyAdded(ctx context.Context, n int) ([]Item, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CreatedAt, items[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// Rooms groups the catalog into one section per category, in category order.
func (s *Store) Rooms(ctx context.Context) ([]Room, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(categories))
	for _, c := range categories {
		room := Room{Slug: RoomSlug(c), Category: c, Items: []Item{}}
		for _, it := range items {
			if strings.EqualFold(it.Category, c) {
				room.Items = append(room.Items, it)
			}
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Add validates in, assigns a fresh id and timestamps, and appends it.
func (s *Store) Add(ctx context.Context, in Item) (Item, error) {
	item, err := normalize(in, s.media)
	if err != nil {
		return Item{}, err
	}
	now := s.now()
	item.ID = idPrefix + s.newID()
	item.CreatedAt = timePtr(now)
	item.UpdatedAt = timePtr(now)

	err = s.mutate(ctx, "add", func(items []Item) ([]Item, *ChangeEvent) {
		return append(items, item), &ChangeEvent{Kind: ChangeAdded, ItemID: item.ID, Item: &item, At: now}
	})
	if err != nil {
		return Item{}, err
	}
	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "catalog.item_added")
	return item, nil
}

// Update replaces the item with in.ID. The stored creation time is kept and
// the update time is bumped.
func (s *Store) Update(ctx context.Context, in Item) (Item, error) {
	item, err := normalize(in, s.media)
	if err != nil {
		return Item{}, err
	}
	now := s.now()
	item.UpdatedAt = timePtr(now)

	found := false
	err = s.mutate(ctx, "update", func(items []Item) ([]Item, *ChangeEvent) {
		for i := range items {
			if items[i].ID != item.ID {
				continue
			}
			found = true
			item.CreatedAt = items[i].CreatedAt
			items[i] = item
			return items, &ChangeEvent{Kind: ChangeUpdated, ItemID: item.ID, Item: &item, At: now}
		}
		return nil, nil
	})
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, item.ID)
	}
	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "catalog.item_updated")
	return item, nil
}

// Remove deletes id. It reports whether anything was removed; removing an
// unknown id writes nothing and is not an error.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, "remove", func(items []Item) ([]Item, *ChangeEvent) {
		out := items[:0]
		for _, it := range items {
			if it.ID == id {
				removed = true
				continue
			}
			out = append(out, it)
		}
		if !removed {
			return nil, nil
		}
		return out, &ChangeEvent{Kind: ChangeRemoved, ItemID: id, At: s.now()}
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.logg.Info(s.logg.WithItemID(ctx, id), "catalog.item_removed")
	}
	return removed, nil
}

// mutate runs fn over the current collection under the store lock. A nil
// event from fn means nothing changed and nothing is written. Observers only
// hear about changes that reached the slot.
func (s *Store) mutate(ctx context.Context, op string, fn func([]Item) ([]Item, *ChangeEvent)) error {
	s.mu.Lock()
	items, _, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, ev := fn(items)
	if ev == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(ctx, op, next); err != nil {
		s.mu.Unlock()
		s.logg.Error(s.logg.WithField(ctx, "op", op), "catalog.persist_failed", err)
		return err
	}
	s.mu.Unlock()

	s.observers.emit(*ev)
	return nil
}

func (s *Store) load(ctx context.Context) ([]Item, bool, error) {
	raw, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return DefaultItems(s.seedTime), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	for i := range items {
		items[i] = migrate(items[i])
	}
	return items, true, nil
}

func (s *Store) persist(ctx context.Context, op string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	start := time.Now()
	err = s.slot.Set(ctx, s.key, payload)
	if s.metrics != nil {
		s.metrics.ObservePersist(op, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if s.metrics != nil {
		s.metrics.SetItemCount(len(items))
	}
	return nil
}
