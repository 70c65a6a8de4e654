package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
)

type Snapshotter interface {
	Products() []models.Product
}

// Indexer mirrors the catalog into the index. Catalog events only mark the
// index dirty; Run does the work, so bursts collapse into one reindex.
type Indexer struct {
	es      *elasticsearch.Client
	index   string
	catalog Snapshotter
	log     *slog.Logger

	dirty chan struct{}

	mu      sync.Mutex
	indexed map[int]struct{}
}

func NewIndexer(es *elasticsearch.Client, index string, catalog Snapshotter, log *slog.Logger) *Indexer {
	return &Indexer{
		es:      es,
		index:   index,
		catalog: catalog,
		log:     log,
		dirty:   make(chan struct{}, 1),
		indexed: make(map[int]struct{}),
	}
}

func (ix *Indexer) Listener() events.Listener {
	return func(e events.Event) {
		if e.Store != events.StoreCatalog || e.Type == events.CatalogRefreshFailed {
			return
		}
		select {
		case ix.dirty <- struct{}{}:
		default:
		}
	}
}

func (ix *Indexer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.dirty:
			if err := ix.Reindex(ctx); err != nil {
				ix.log.Error("search_reindex_failed", "index", ix.index, "error", err)
			}
		}
	}
}

// Reindex writes the current snapshot and deletes documents of products that
// are gone.
func (ix *Indexer) Reindex(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	products := ix.catalog.Products()
	current := make(map[int]struct{}, len(products))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		current[p.ID] = struct{}{}
		if err := enc.Encode(map[string]any{"index": map[string]any{"_index": ix.index, "_id": strconv.Itoa(p.ID)}}); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}
	}
	for id := range ix.indexed {
		if _, ok := current[id]; ok {
			continue
		}
		if err := enc.Encode(map[string]any{"delete": map[string]any{"_index": ix.index, "_id": strconv.Itoa(id)}}); err != nil {
			return fmt.Errorf("encode bulk delete: %w", err)
		}
	}
	if buf.Len() == 0 {
		return nil
	}

	res, err := ix.es.Bulk(&buf,
		ix.es.Bulk.WithContext(ctx),
		ix.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("bulk request: %s: %s", res.Status(), msg)
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk request: some items failed")
	}

	ix.indexed = current
	ix.log.Info("search_reindexed", "index", ix.index, "count", len(products))
	return nil
}
