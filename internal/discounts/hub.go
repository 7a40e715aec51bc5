package discounts

import (
	"context"
	"sync"
	"sync/atomic"
)

// hub fans broker deliveries out to local subscribers. A subscriber whose
// buffer is full misses the update rather than stalling delivery.
type hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscriber
	next    uint64
	buffer  int
	dropped atomic.Int64
}

type subscriber struct {
	itemID string
	ch     chan Update
}

func newHub(buffer int) *hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &hub{subs: map[uint64]*subscriber{}, buffer: buffer}
}

// add registers a subscriber for itemID ("" matches every item). The channel
// closes once ctx is done.
func (h *hub) add(ctx context.Context, itemID string) <-chan Update {
	sub := &subscriber{itemID: itemID, ch: make(chan Update, h.buffer)}

	h.mu.Lock()
	h.next++
	id := h.next
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(id)
	}()
	return sub.ch
}

func (h *hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

func (h *hub) dispatch(u Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.itemID != "" && sub.itemID != u.ItemID {
			continue
		}
		select {
		case sub.ch <- u:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
