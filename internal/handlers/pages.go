package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const featuredCount = 4

type PagesHTTP struct {
	Catalog Catalog
}

func (h *PagesHTTP) Home(c echo.Context) error {
	products := h.Catalog.Products()
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"featured": products,
		"loading":  h.Catalog.Loading(),
		"error":    h.Catalog.Error(),
		"user":     viewUser(c),
	})
}

func (h *PagesHTTP) About(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title": "About LexxStore",
		"body":  "LexxStore brings together everyday products from a curated catalog.",
		"user":  viewUser(c),
	})
}

// NotFound answers every unmatched route.
func NotFound(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "pages.not_found")
	l.Info("route_not_found", "status", http.StatusNotFound, "reason", "no route", "path", c.Request().URL.Path)
	return c.JSON(http.StatusNotFound, echo.Map{
		"message": "page not found",
		"path":    c.Request().URL.Path,
		"home":    "/",
	})
}
