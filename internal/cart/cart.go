// Package cart keeps one browser session's selected products.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrEmpty      = errors.New("cart is empty")
)

// MaxQuantity caps the units of one product a cart can hold.
const MaxQuantity = 999

// Store holds at most one item per product id. Quantities are always >= 1;
// an item that would drop to zero is removed.
type Store struct {
	sessionID string
	hub       *events.Hub

	mu    sync.RWMutex
	items []models.CartItem
}

func New(sessionID string, hub *events.Hub) *Store {
	return &Store{sessionID: sessionID, hub: hub}
}

// AddItem adds quantity units of p. It changes nothing and returns an
// ErrValidation error when quantity <= 0, p has no id, or the item would
// exceed MaxQuantity.
func (s *Store) AddItem(p models.CartProduct, quantity int) error {
	if p.ID == 0 {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("quantity must not exceed %d: %w", MaxQuantity, ErrValidation)
	}

	s.mu.Lock()
	if i := s.indexOf(p.ID); i >= 0 {
		if quantity > MaxQuantity-s.items[i].Quantity {
			s.mu.Unlock()
			return fmt.Errorf("quantity must not exceed %d: %w", MaxQuantity, ErrValidation)
		}
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, models.CartItem{CartProduct: p, Quantity: quantity})
	}
	s.mu.Unlock()

	s.emit(events.CartItemAdded, p.ID, map[string]any{"quantity": quantity})
	return nil
}

// RemoveItem takes one unit of the product out of the cart.
func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity--
	if s.items[i].Quantity <= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	s.mu.Unlock()

	s.emit(events.CartItemRemoved, id, nil)
}

// ClearItem drops the product regardless of its quantity.
func (s *Store) ClearItem(id int) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.mu.Unlock()

	s.emit(events.CartItemCleared, id, nil)
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.emit(events.CartCleared, 0, nil)
}

func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem{}, s.items...)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.items)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

type Summary struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

// Summary reads items and totals under one lock so they agree.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		Items:      append([]models.CartItem{}, s.items...),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

// Checkout returns the summary of the cart and empties it.
func (s *Store) Checkout() (Summary, error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return Summary{}, ErrEmpty
	}
	order := Summary{
		Items:      s.items,
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
	s.items = nil
	s.mu.Unlock()

	s.emit(events.CartCheckedOut, 0, map[string]any{
		"total_items": order.TotalItems,
		"total_price": order.TotalPrice.String(),
	})
	return order, nil
}

func (s *Store) indexOf(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) emit(typ string, productID int, payload map[string]any) {
	s.hub.Emit(events.Event{
		Store:     events.StoreCart,
		Type:      typ,
		SessionID: s.sessionID,
		ProductID: productID,
		Payload:   payload,
	})
}

func totalItems(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}
