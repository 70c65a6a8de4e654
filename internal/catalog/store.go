// Package catalog holds the process-wide product list.
//
// The list is seeded from a remote source and then mutated locally. Local
// mutations are non-durable: they never reach the remote source and are lost
// when the process restarts or the list is refreshed.
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrValidation = errors.New("validation")

type Source interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

type Store struct {
	src Source
	hub *events.Hub

	mu       sync.RWMutex
	products []models.Product
	loading  bool
	errMsg   string

	refreshes singleflight.Group
}

// New returns an empty store in the loading state. Call Refresh to seed it.
func New(src Source, hub *events.Hub) *Store {
	return &Store{
		src:      src,
		hub:      hub,
		products: []models.Product{},
		loading:  true,
	}
}

// Refresh replaces the collection with a fresh copy from the source. Calls
// made while a fetch is in flight wait for that fetch and share its result.
// On failure the previous collection is kept and Error reports a short
// message; the returned error keeps the cause.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.refreshes.Do("refresh", func() (any, error) {
		return nil, s.refresh(context.WithoutCancel(ctx))
	})
	return err
}

func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	start := time.Now()
	fetched, err := s.src.FetchProducts(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = ErrFetchFailed.Error()
		s.mu.Unlock()
		s.hub.Emit(events.Event{
			Store: events.StoreCatalog,
			Type:  events.CatalogRefreshFailed,
			Payload: map[string]any{
				"error":            err.Error(),
				"duration_seconds": elapsed.Seconds(),
			},
		})
		return err
	}
	s.products = append(make([]models.Product, 0, len(fetched)), fetched...)
	s.errMsg = ""
	count := len(s.products)
	s.mu.Unlock()

	s.hub.Emit(events.Event{
		Store: events.StoreCatalog,
		Type:  events.CatalogRefreshed,
		Payload: map[string]any{
			"count":            count,
			"duration_seconds": elapsed.Seconds(),
		},
	})
	return nil
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the message of the last failed refresh, or "" after a
// successful one.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

func (s *Store) GetProductByID(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddProduct assigns the next id (max id + 1, or 1 when empty) and puts the
// product at the front of the list.
func (s *Store) AddProduct(in models.ProductInput) models.Product {
	s.mu.Lock()
	nextID := 1
	for _, p := range s.products {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	created := models.Product{
		ID:          nextID,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
	}
	if in.Rating != nil {
		created.Rating = *in.Rating
	}

	s.products = append([]models.Product{created}, s.products...)
	s.mu.Unlock()

	s.hub.Emit(events.Event{
		Store:     events.StoreCatalog,
		Type:      events.CatalogProductCreated,
		ProductID: created.ID,
		Payload:   map[string]any{"title": created.Title},
	})
	return created
}

// UpdateProduct merges u into the product with the given id. It reports
// false and changes nothing when no such product exists.
func (s *Store) UpdateProduct(id int, u models.ProductUpdate) (models.Product, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, false
	}
	updated := u.Apply(s.products[idx])
	s.products[idx] = updated
	s.mu.Unlock()

	s.hub.Emit(events.Event{
		Store:     events.StoreCatalog,
		Type:      events.CatalogProductUpdated,
		ProductID: id,
		Payload:   map[string]any{"title": updated.Title},
	})
	return updated, true
}

func (s *Store) DeleteProduct(id int) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	s.mu.Unlock()

	s.hub.Emit(events.Event{
		Store:     events.StoreCatalog,
		Type:      events.CatalogProductDeleted,
		ProductID: id,
	})
	return true
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
