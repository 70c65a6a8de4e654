package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
)

type CartHTTP struct {
	Catalog Catalog
}

type addItemRequest struct {
	ProductID int  `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

func cartView(s cart.Summary) echo.Map {
	return echo.Map{
		"items":       s.Items,
		"total_items": s.TotalItems,
		"total_price": s.TotalPrice.StringFixed(2),
	}
}

// GetCart shows an empty cart to browsers without a session.
func (h *CartHTTP) GetCart(c echo.Context) error {
	s := session.Peek(c)
	if s == nil {
		return c.JSON(http.StatusOK, cartView(cart.New("", nil).Summary()))
	}
	return c.JSON(http.StatusOK, cartView(s.Cart.Summary()))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.add_to_cart")

	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	p, ok := h.Catalog.GetProductByID(req.ProductID)
	if !ok {
		l.Warn("add_to_cart_failed", "status", http.StatusNotFound, "reason", "product not found", "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if err := s.Cart.AddItem(p.CartProduct(), qty); err != nil {
		if errors.Is(err, cart.ErrValidation) {
			l.Warn("add_to_cart_failed", "status", http.StatusBadRequest, "reason", "invalid quantity", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("quantity must be between 1 and %d", cart.MaxQuantity))
		}
		l.Error("add_to_cart_failed", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	l.Info("add_to_cart_success", "product_id", p.ID, "quantity", qty)
	return c.JSON(http.StatusOK, cartView(s.Cart.Summary()))
}

func (h *CartHTTP) DeleteOneFromCart(c echo.Context) error {
	return h.removeWith(c, "cart.delete_one", func(s *cart.Store, id int) { s.RemoveItem(id) })
}

func (h *CartHTTP) DeleteAllFromCart(c echo.Context) error {
	return h.removeWith(c, "cart.delete_all", func(s *cart.Store, id int) { s.ClearItem(id) })
}

func (h *CartHTTP) removeWith(c echo.Context, handler string, op func(*cart.Store, int)) error {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)

	s, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("cart_remove_failed", "status", http.StatusBadRequest, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	op(s.Cart, id)
	return c.JSON(http.StatusOK, cartView(s.Cart.Summary()))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	s.Cart.ClearCart()
	return c.JSON(http.StatusOK, cartView(s.Cart.Summary()))
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	view := cartView(s.Cart.Summary())
	view["user"] = viewUser(c)
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) PlaceOrder(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.place_order")

	s, err := currentSession(c)
	if err != nil {
		return err
	}

	order, err := s.Cart.Checkout()
	if err != nil {
		if errors.Is(err, cart.ErrEmpty) {
			l.Warn("place_order_failed", "status", http.StatusBadRequest, "reason", "cart is empty")
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		l.Error("place_order_failed", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot place order")
	}

	l.Info("place_order_success", "total_items", order.TotalItems, "total_price", order.TotalPrice.String())
	return c.JSON(http.StatusCreated, echo.Map{"order": cartView(order)})
}
