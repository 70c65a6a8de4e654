package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

// Catalog is the product store the handlers read and mutate.
type Catalog interface {
	Refresh(ctx context.Context) error
	Loading() bool
	Error() string
	Products() []models.Product
	GetProductByID(id int) (models.Product, bool)
	AddProduct(in models.ProductInput) models.Product
	UpdateProduct(id int, u models.ProductUpdate) (models.Product, bool)
	DeleteProduct(id int) bool
	Filter(query, category string) []models.Product
	Categories() []string
}

// ProductSearcher is the optional full-text search used by the listing.
type ProductSearcher interface {
	Search(ctx context.Context, query, category string, from, size int) (int64, []models.Product, error)
}

func currentSession(c echo.Context) (*session.Session, error) {
	s := session.FromContext(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return s, nil
}

// viewUser is the signed-in user for a view, or nil.
func viewUser(c echo.Context) *models.AuthUser {
	s := session.Peek(c)
	if s == nil {
		return nil
	}
	u, ok := s.Auth.User()
	if !ok {
		return nil
	}
	return &u
}

func productID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}
