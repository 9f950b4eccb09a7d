package livefeed

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-queue/internal/domain"
)

// Snapshot is the full active queue delivered to every subscriber on each
// change, ordered by created_at ascending.
type Snapshot struct {
	Demands []domain.Demand `json:"demands"`
	At      time.Time       `json:"at"`
}

// Loader fetches the current active queue from the store.
type Loader func(ctx context.Context) ([]domain.Demand, error)

// Bridge carries change notes between instances. SubscribeChanges returns a
// nil channel when no bridge is configured; an open channel closes when the
// underlying connection drops.
type Bridge interface {
	PublishChange(ctx context.Context) error
	SubscribeChanges(ctx context.Context) (<-chan struct{}, func() error)
}

// Hub fans full-queue snapshots out to in-process subscribers. A Redis
// pub/sub channel bridges instances: local mutations publish a change note,
// every instance re-queries and pushes the fresh snapshot.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Snapshot
	nextID int
	last   Snapshot

	loader        Loader
	bridge        Bridge
	logger        *zap.Logger
	reconnectWait time.Duration
}

// NewHub constructs a hub.
func NewHub(loader Loader, bridge Bridge, logger *zap.Logger) *Hub {
	return &Hub{
		subs:          make(map[int]chan Snapshot),
		loader:        loader,
		bridge:        bridge,
		logger:        logger,
		reconnectWait: time.Second,
	}
}

// Start loads the initial snapshot and listens for cross-instance change
// notes until ctx is cancelled. The subscription reconnects with backoff;
// while it is down the last good snapshot stays served.
func (h *Hub) Start(ctx context.Context) {
	if err := h.Refresh(ctx); err != nil {
		h.logger.Warn("initial snapshot load failed", zap.Error(err))
	}
	if h.bridge != nil {
		go h.listen(ctx)
	}
}

func (h *Hub) listen(ctx context.Context) {
	backoff := h.reconnectWait
	for {
		if ctx.Err() != nil {
			return
		}
		notes, closeSub := h.bridge.SubscribeChanges(ctx)
		if notes == nil {
			return
		}
	recv:
		for {
			select {
			case <-ctx.Done():
				_ = closeSub()
				return
			case _, ok := <-notes:
				if !ok {
					break recv
				}
				backoff = h.reconnectWait
				if err := h.Refresh(ctx); err != nil {
					h.logger.Warn("snapshot refresh failed", zap.Error(err))
				}
			}
		}
		_ = closeSub()
		h.logger.Warn("feed subscription lost; reconnecting", zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// NotifyChange is called after any local mutation: refreshes this instance
// and publishes the change note for the others.
func (h *Hub) NotifyChange(ctx context.Context) {
	if err := h.Refresh(ctx); err != nil {
		h.logger.Warn("snapshot refresh failed", zap.Error(err))
	}
	if h.bridge == nil {
		return
	}
	if err := h.bridge.PublishChange(ctx); err != nil {
		h.logger.Warn("change publish failed", zap.Error(err))
	}
}

// Refresh re-queries the active queue and fans the snapshot out. On load
// failure subscribers keep the previous snapshot.
func (h *Hub) Refresh(ctx context.Context) error {
	demands, err := h.loader(ctx)
	if err != nil {
		return err
	}
	// store ordering is created_at asc already; guard it regardless of how
	// the underlying feed delivered the rows
	sort.SliceStable(demands, func(i, j int) bool {
		return demands[i].CreatedAt.Before(demands[j].CreatedAt)
	})
	snapshot := Snapshot{Demands: demands, At: time.Now()}

	h.mu.Lock()
	h.last = snapshot
	for _, sub := range h.subs {
		select {
		case sub <- snapshot:
		default:
			// slow subscriber keeps its stale snapshot; next change retries
		}
	}
	h.mu.Unlock()
	return nil
}

// Subscribe registers a listener. The current snapshot is delivered first;
// the returned cancel func must be called when done.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	ch <- h.last
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Last returns the most recent snapshot.
func (h *Hub) Last() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}
