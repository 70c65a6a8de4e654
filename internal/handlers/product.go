package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/util"
)

type ProductHTTP struct {
	Catalog Catalog
	// Search is nil when no search backend is configured.
	Search ProductSearcher
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := c.QueryParam("q")
	category := c.QueryParam("category")
	if category == "" {
		category = catalog.AllCategories
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var (
		items []models.Product
		total int64
	)
	searched := false
	if h.Search != nil && q != "" {
		t, found, err := h.Search.Search(ctx, q, category, offset, limit)
		if err != nil {
			l.Warn("search_failed", "reason", "falling back to catalog filter", "error", err)
		} else {
			items, total, searched = found, t, true
		}
	}
	if !searched {
		all := h.Catalog.Filter(q, category)
		total = int64(len(all))
		items = util.Page(all, offset, limit)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":       items,
		"meta":       util.Meta(page, limit, total),
		"query":      q,
		"category":   category,
		"categories": h.Catalog.Categories(),
		"loading":    h.Catalog.Loading(),
		"error":      h.Catalog.Error(),
	})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.get_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", http.StatusBadRequest, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	p, ok := h.Catalog.GetProductByID(id)
	if !ok {
		l.Info("get_product_failed", "status", http.StatusNotFound, "reason", "product not found", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product": p,
		"draft":   catalog.DraftOf(p),
		"user":    viewUser(c),
	})
}

// PatchProduct applies an edited draft to the product. Fields missing from
// the body keep the product's values.
func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.patch_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("product_patch_error", "status", http.StatusBadRequest, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	updated, err := saveDraft(c, h.Catalog, id)
	if err != nil {
		l.Warn("product_patch_error", "reason", err.Error(), "product_id", id)
		return err
	}

	l.Info("product_patch_success", "product_id", id)
	return c.JSON(http.StatusOK, updated)
}

func saveDraft(c echo.Context, cat Catalog, id int) (models.Product, error) {
	current, ok := cat.GetProductByID(id)
	if !ok {
		return models.Product{}, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	draft := catalog.DraftOf(current)
	if err := c.Bind(&draft); err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	upd, err := draft.ForUpdate(current)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return models.Product{}, echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	updated, ok := cat.UpdateProduct(id, upd)
	if !ok {
		return models.Product{}, echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return updated, nil
}
