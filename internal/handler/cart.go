package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-api/internal/cart"
	"github.com/iliyamo/ecommerce-api/internal/middleware"
)

// CartHandler serves the shopping-cart endpoints. The cart is keyed by
// the authenticated email, so no id appears in the routes.
type CartHandler struct {
	Carts *cart.Engine
}

func NewCartHandler(carts *cart.Engine) *CartHandler {
	return &CartHandler{Carts: carts}
}

type cartAddReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
type cartUpdateReq struct {
	Quantity int `json:"quantity"`
}

func validProductID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// AddItem merges a line into the caller's cart, creating the cart on
// first use. Quantities for an already-present product add up.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validProductID(req.ProductID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	if req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Carts.AddItem(ctx, middleware.Identity(c).Email, req.ProductID, req.Quantity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "item added to cart",
		"items":   updated.Items,
	})
}

// RemoveItem drops a product from the cart. Removing a product that is
// not in the cart succeeds; only a user with no cart at all gets a 404.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID := c.Param("product_id")
	if !validProductID(productID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Carts.RemoveItem(ctx, middleware.Identity(c).Email, productID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove from cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "item removed from cart",
		"items":   updated.Items,
	})
}

// UpdateItem replaces the quantity on an existing line. The product must
// already be in the cart.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	productID := c.Param("product_id")
	if !validProductID(productID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req cartUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Carts.UpdateItem(ctx, middleware.Identity(c).Email, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrCartNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart not found"})
		case errors.Is(err, cart.ErrProductNotInCart):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found in cart"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "cart updated",
		"items":   updated.Items,
	})
}

// View renders the caller's cart. A user who never added anything sees
// an empty cart, never an error.
func (h *CartHandler) View(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Carts.View(ctx, middleware.Identity(c).Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "view cart failed"})
	}
	if view.UpdatedAt.IsZero() {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Cart is empty",
			"items":   view.Items,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":      view.Items,
		"updated_at": view.UpdatedAt,
	})
}
