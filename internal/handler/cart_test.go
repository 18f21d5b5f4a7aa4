package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-api/internal/cart"
	"github.com/iliyamo/ecommerce-api/internal/middleware"
	"github.com/iliyamo/ecommerce-api/internal/model"
)

// memCartStore is an in-memory cart.Store keyed by email.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]model.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]model.Cart{}}
}

func (m *memCartStore) FindByEmail(ctx context.Context, email string) (model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[email]
	if !ok {
		return model.Cart{}, cart.ErrCartNotFound
	}
	return c, nil
}

func (m *memCartStore) Insert(ctx context.Context, c model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserEmail] = c
	return nil
}

func (m *memCartStore) Replace(ctx context.Context, c model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserEmail] = c
	return nil
}

func newTestCartHandler() (*CartHandler, *memCartStore) {
	store := newMemCartStore()
	return NewCartHandler(cart.NewEngine(store)), store
}

const cartUserEmail = "bob@example.com"

// cartRequest runs a handler with the authenticated email already in the
// context, like the auth middleware would leave it.
func cartRequest(h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, cartUserEmail)
	c.Set(middleware.CtxRole, model.RoleUser)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	_ = h(c)
	return rec
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()
	h, store := newTestCartHandler()
	pid := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+pid+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Adding the same product again merges quantities.
	rec = cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+pid+`","quantity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	c, err := store.FindByEmail(context.Background(), cartUserEmail)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestCartAddItem_InvalidProductID(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"not-hex","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAddItem_NegativeQuantity(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()
	pid := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+pid+`","quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveItem_NoCart(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()
	pid := bson.NewObjectID().Hex()

	rec := cartRequest(h.RemoveItem, http.MethodDelete, "/cart/"+pid, "",
		"product_id", pid)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRemoveItem_AbsentProductSucceeds(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()
	present := bson.NewObjectID().Hex()
	absent := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+present+`","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = cartRequest(h.RemoveItem, http.MethodDelete, "/cart/"+absent, "",
		"product_id", absent)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartUpdateItem(t *testing.T) {
	t.Parallel()
	h, store := newTestCartHandler()
	pid := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+pid+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Update replaces the quantity instead of adding to it.
	rec = cartRequest(h.UpdateItem, http.MethodPut, "/cart/"+pid,
		`{"quantity":7}`, "product_id", pid)
	require.Equal(t, http.StatusOK, rec.Code)

	c, err := store.FindByEmail(context.Background(), cartUserEmail)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestCartUpdateItem_ProductMissing(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()
	present := bson.NewObjectID().Hex()
	absent := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+present+`","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = cartRequest(h.UpdateItem, http.MethodPut, "/cart/"+absent,
		`{"quantity":3}`, "product_id", absent)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartView_Empty(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()

	rec := cartRequest(h.View, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart is empty")
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestCartView_WithItems(t *testing.T) {
	t.Parallel()
	h, _ := newTestCartHandler()
	pid := bson.NewObjectID().Hex()

	rec := cartRequest(h.AddItem, http.MethodPost, "/cart",
		`{"product_id":"`+pid+`","quantity":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = cartRequest(h.View, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), pid)
	assert.Contains(t, rec.Body.String(), "updated_at")
	assert.NotContains(t, rec.Body.String(), "Cart is empty")
}
