package events

import "sync"

const (
	StoreCatalog = "catalog"
	StoreCart    = "cart"
	StoreAuth    = "auth"
)

const (
	CatalogRefreshed      = "refreshed"
	CatalogRefreshFailed  = "refresh_failed"
	CatalogProductCreated = "product_created"
	CatalogProductUpdated = "product_updated"
	CatalogProductDeleted = "product_deleted"

	CartItemAdded   = "item_added"
	CartItemRemoved = "item_removed"
	CartItemCleared = "item_cleared"
	CartCleared     = "cart_cleared"
	CartCheckedOut  = "checked_out"

	AuthLoggedIn    = "logged_in"
	AuthLoggedOut   = "logged_out"
	AuthLoginFailed = "login_failed"
)

type Event struct {
	Store     string         `json:"store"`
	Type      string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	ProductID int            `json:"product_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type Listener func(Event)

// Hub fans store changes out to subscribers. A nil *Hub drops every event.
type Hub struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]Listener
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]Listener)}
}

func (h *Hub) Subscribe(l Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Emit calls every listener synchronously, in no particular order.
func (h *Hub) Emit(e Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	ls := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		ls = append(ls, l)
	}
	h.mu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}
