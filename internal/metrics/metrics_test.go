package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
)

func TestListenerCountsEvents(t *testing.T) {
	m := New(func() int { return 3 })
	hub := events.NewHub()
	hub.Subscribe(m.Listener())

	hub.Emit(events.Event{Store: events.StoreCart, Type: events.CartItemAdded})
	hub.Emit(events.Event{Store: events.StoreCart, Type: events.CartItemAdded})
	hub.Emit(events.Event{Store: events.StoreCatalog, Type: events.CatalogRefreshed, Payload: map[string]any{"duration_seconds": 0.25}})
	hub.Emit(events.Event{Store: events.StoreCatalog, Type: events.CatalogProductCreated})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeEvents.WithLabelValues("cart", "item_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeEvents.WithLabelValues("catalog", "refreshed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.refreshSeconds))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(func() int { return 7 })
	m.Listener()(events.Event{Store: events.StoreAuth, Type: events.AuthLoggedIn})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `storefront_store_events_total{store="auth",type="logged_in"} 1`))
	assert.True(t, strings.Contains(text, "storefront_active_sessions 7"))
	assert.True(t, strings.Contains(text, "storefront_catalog_refresh_seconds_count 0"))
}
