package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-api/internal/middleware"
	"github.com/iliyamo/ecommerce-api/internal/model"
	"github.com/iliyamo/ecommerce-api/internal/repository"
)

// ProductStore is the slice of the product repository the handlers
// depend on.
type ProductStore interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	GetByID(ctx context.Context, id string) (model.Product, error)
	List(ctx context.Context, skip, limit int64) ([]model.Product, error)
	Update(ctx context.Context, id string, upd model.ProductUpdate) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler serves the catalog endpoints. Cache may be nil; when
// set, admin mutations drop every cached listing page.
type ProductHandler struct {
	Products ProductStore
	Cache    *middleware.ProductCache
}

func NewProductHandler(products ProductStore, cache *middleware.ProductCache) *ProductHandler {
	return &ProductHandler{Products: products, Cache: cache}
}

const defaultPageSize = 10

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

type productUpdateReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

type productPage struct {
	Products  []model.Product `json:"products"`
	NextToken *int64          `json:"next_token"`
}

// Create adds a product to the catalog. Admin only.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Image == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/image required"})
	}
	if req.Price < 0 || req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price/stock must not be negative"})
	}

	p := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
	}
	p.DeriveStockStatus()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Products.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateImage) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product with this image already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}

	h.Cache.Invalidate(ctx)
	return c.JSON(http.StatusCreated, created)
}

// List returns a page of products. The pagination_token query parameter
// is the offset of the page and limit its size; next_token is null on
// the last page.
func (h *ProductHandler) List(c echo.Context) error {
	token := int64(0)
	if s := c.QueryParam("pagination_token"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pagination_token"})
		}
		token = n
	}
	limit := int64(defaultPageSize)
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.List(ctx, token, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list products failed"})
	}

	page := productPage{Products: products}
	if int64(len(products)) == limit {
		next := token + limit
		page.NextToken = &next
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial catalog update. Admin only.
func (h *ProductHandler) Update(c echo.Context) error {
	var req productUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.Stock != nil && *req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.Update(ctx, c.Param("id"), model.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}

	h.Cache.Invalidate(ctx)
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product. Admin only.
func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}

	h.Cache.Invalidate(ctx)
	return c.NoContent(http.StatusNoContent)
}
