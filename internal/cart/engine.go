// Package cart implements the per-user shopping cart: idempotent line-item
// merging keyed by product id over a whole-document store.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/ecommerce-api/internal/model"
)

var (
	// ErrCartNotFound is returned by mutations addressed at a user who has
	// no cart yet. View deliberately does not share this behavior.
	ErrCartNotFound = errors.New("cart not found")
	// ErrProductNotInCart is returned by UpdateItem when no line matches
	// the product id.
	ErrProductNotInCart = errors.New("product not found in cart")
)

// Store persists cart documents. FindByEmail must return ErrCartNotFound
// when the user has no cart. Replace writes the full document back, so
// concurrent mutations for the same user are last-writer-wins; the engine
// does not serialize them.
type Store interface {
	FindByEmail(ctx context.Context, email string) (model.Cart, error)
	Insert(ctx context.Context, c model.Cart) error
	Replace(ctx context.Context, c model.Cart) error
}

// Engine owns the cart semantics. The asymmetry between AddItem (upsert,
// quantities add) and UpdateItem (strict, quantity replaced) is part of the
// contract, as is View treating a missing cart as an empty one.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// AddItem merges a line into the user's cart. A missing cart is created
// with the single line. When a line for the product exists, the incoming
// quantity is added to it; otherwise a new line is appended. The document
// is stamped and persisted even when quantity is zero.
func (e *Engine) AddItem(ctx context.Context, email, productID string, quantity int) (model.Cart, error) {
	c, err := e.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrCartNotFound) {
		c = model.Cart{
			UserEmail: email,
			Items:     []model.CartLine{{ProductID: productID, Quantity: quantity}},
			UpdatedAt: e.now().UTC(),
		}
		if err := e.store.Insert(ctx, c); err != nil {
			return model.Cart{}, err
		}
		return c, nil
	}
	if err != nil {
		return model.Cart{}, err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, model.CartLine{ProductID: productID, Quantity: quantity})
	}
	return e.persist(ctx, c)
}

// RemoveItem drops every line for the product and persists the remainder
// unconditionally: removing a product that was never in the cart succeeds
// and still stamps the document. Only a missing cart is an error.
func (e *Engine) RemoveItem(ctx context.Context, email, productID string) (model.Cart, error) {
	c, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return model.Cart{}, err
	}
	kept := make([]model.CartLine, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.Items = kept
	return e.persist(ctx, c)
}

// UpdateItem replaces (not adds) the quantity on an existing line. Unlike
// AddItem it never appends: an absent product is ErrProductNotInCart.
func (e *Engine) UpdateItem(ctx context.Context, email, productID string, quantity int) (model.Cart, error) {
	c, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return model.Cart{}, err
	}
	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return model.Cart{}, ErrProductNotInCart
	}
	return e.persist(ctx, c)
}

// View renders the cart. A user with no cart sees empty items rather than
// an error; the zero UpdatedAt marks that nothing was ever persisted.
func (e *Engine) View(ctx context.Context, email string) (model.Cart, error) {
	c, err := e.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrCartNotFound) {
		return model.Cart{UserEmail: email, Items: []model.CartLine{}}, nil
	}
	if err != nil {
		return model.Cart{}, err
	}
	return c, nil
}

func (e *Engine) persist(ctx context.Context, c model.Cart) (model.Cart, error) {
	c.UpdatedAt = e.now().UTC()
	if err := e.store.Replace(ctx, c); err != nil {
		return model.Cart{}, err
	}
	return c, nil
}
