package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type DashboardHTTP struct {
	Catalog Catalog
}

func (h *DashboardHTTP) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"products": h.Catalog.Products(),
		"loading":  h.Catalog.Loading(),
		"error":    h.Catalog.Error(),
		"user":     viewUser(c),
	})
}

func (h *DashboardHTTP) CreateProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard.create_product")

	var draft catalog.Draft
	if err := c.Bind(&draft); err != nil {
		l.Warn("product_create_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	in, err := draft.ForCreate()
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("product_create_error", "status", http.StatusBadRequest, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_create_error", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	created := h.Catalog.AddProduct(in)
	l.Info("create_product_success", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *DashboardHTTP) UpdateProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard.update_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("product_update_error", "status", http.StatusBadRequest, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	updated, err := saveDraft(c, h.Catalog, id)
	if err != nil {
		l.Warn("product_update_error", "reason", err.Error(), "product_id", id)
		return err
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *DashboardHTTP) DeleteProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard.delete_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("product_delete_error", "status", http.StatusBadRequest, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	if !h.Catalog.DeleteProduct(id) {
		l.Info("product_delete_noop", "reason", "product not found", "product_id", id)
	} else {
		l.Info("delete_product_success", "product_id", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// Refresh re-runs the catalog fetch. A failed fetch is reported in the body,
// the previous products stay.
func (h *DashboardHTTP) Refresh(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard.refresh")

	if err := h.Catalog.Refresh(c.Request().Context()); err != nil {
		l.Warn("catalog_refresh_failed", "status", http.StatusBadGateway, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":    h.Catalog.Error(),
			"products": h.Catalog.Products(),
		})
	}

	l.Info("catalog_refresh_success", "count", len(h.Catalog.Products()))
	return c.JSON(http.StatusOK, echo.Map{
		"error":    "",
		"products": h.Catalog.Products(),
	})
}
