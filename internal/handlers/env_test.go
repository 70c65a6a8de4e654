package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
)

type staticSource struct {
	products []models.Product
	err      error
}

func (s staticSource) FetchProducts(context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func seedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Category: "men's clothing", Image: "b.jpg", Description: "bag", Rating: models.Rating{Rate: 3.9, Count: 120}},
		{ID: 2, Title: "Slim Fit T-Shirts", Price: 22.3, Category: "men's clothing", Image: "t.jpg"},
		{ID: 5, Title: "Dragon Bracelet", Price: 695, Category: "jewelery", Image: "j.jpg"},
		{ID: 9, Title: "Portable Hard Drive", Price: 64, Category: "electronics", Image: "h.jpg"},
		{ID: 14, Title: "Curved Monitor", Price: 999.99, Category: "electronics", Image: "m.jpg"},
	}
}

var (
	credsOnce sync.Once
	creds     *auth.Credentials
)

type testEnv struct {
	E       *echo.Echo
	Catalog *catalog.Store
	Manager *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	credsOnce.Do(func() {
		var err error
		creds, err = auth.NewCredentials(auth.DefaultAccounts...)
		require.NoError(t, err)
	})

	cat := catalog.New(staticSource{products: seedProducts()}, nil)
	require.NoError(t, cat.Refresh(context.Background()))

	return &testEnv{
		E:       echo.New(),
		Catalog: cat,
		Manager: session.NewManager(storage.NewMemory(), creds, nil, time.Hour),
	}
}

func (env *testEnv) session(t *testing.T, id, username, password string) *session.Session {
	t.Helper()
	s := env.Manager.Get(context.Background(), id)
	if username != "" {
		_, err := s.Auth.Login(context.Background(), username, password)
		require.NoError(t, err)
	}
	return s
}

func (env *testEnv) doJSONRequest(method, target string, body any, s *session.Session) (*httptest.ResponseRecorder, echo.Context) {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if s != nil {
		session.Set(c, s)
	}
	return rec, c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func ids(t *testing.T, raw any) []int {
	t.Helper()
	list, ok := raw.([]any)
	require.True(t, ok, "expected list, got %T", raw)
	out := make([]int, 0, len(list))
	for _, it := range list {
		out = append(out, int(it.(map[string]any)["id"].(float64)))
	}
	return out
}

