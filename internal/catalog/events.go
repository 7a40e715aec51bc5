package catalog

import (
	"sync"
	"time"
)

// ChangeKind names the mutation that produced a ChangeEvent.
type ChangeKind string

const (
	ChangeSeeded  ChangeKind = "seeded"
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// ChangeEvent is delivered to subscribers after a mutation has been persisted.
// Item is nil for removals and seeding.
type ChangeEvent struct {
	Kind   ChangeKind `json:"kind"`
	ItemID string     `json:"itemId,omitempty"`
	Item   *Item      `json:"item,omitempty"`
	At     time.Time  `json:"at"`
}

// Observer receives change events. It runs on the mutating goroutine and must
// not block or call back into the store's mutating methods.
type Observer func(ChangeEvent)

type observers struct {
	mu   sync.RWMutex
	next uint64
	fns  map[uint64]Observer
}

func (o *observers) add(fn Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[uint64]Observer)
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers) emit(ev ChangeEvent) {
	o.mu.RLock()
	fns := make([]Observer, 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (o *observers) count() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.fns)
}
