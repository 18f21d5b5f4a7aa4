// Package router wires the HTTP surface: public account and catalog
// routes plus the authenticated profile, admin and cart groups.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-api/internal/auth"
	"github.com/iliyamo/ecommerce-api/internal/handler"
	"github.com/iliyamo/ecommerce-api/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
}

// RegisterRoutes mounts the full API on the provided Echo instance. The
// cache middleware is applied to the catalog listing only; a nil cache
// disables it transparently.
func RegisterRoutes(e *echo.Echo, h Handlers, tokens *auth.TokenService, cache *middleware.ProductCache) {
	e.GET("/", handler.Welcome)
	e.GET("/healthz", handler.Health)

	// Account lifecycle. Session endpoints identify the caller by the
	// refresh token in the body, not by an access token.
	e.POST("/users/signup", h.Auth.Signup)
	e.POST("/users/login", h.Auth.Login)
	e.POST("/refresh-token", h.Auth.Refresh)
	e.POST("/users/logout", h.Auth.Logout)
	e.POST("/users/request-password-reset", h.Auth.RequestPasswordReset)
	e.POST("/users/reset-password/:token", h.Auth.ResetPassword)

	// Account management by id stays open, matching the account
	// lifecycle endpoints above.
	e.GET("/users/:id", h.Users.Get)
	e.PUT("/users/:id", h.Users.Update)
	e.DELETE("/users/:id", h.Users.Delete)

	// Catalog reads are public; the listing goes through the cache.
	products := e.Group("/products")
	products.GET("", h.Products.List, cache.Middleware())
	products.GET("/:id", h.Products.Get)

	// Everything below requires a valid access token.
	authed := e.Group("", middleware.Auth(tokens))
	authed.GET("/users/me", h.Users.Me)
	authed.GET("/users", h.Users.List, middleware.RequireAdmin())

	authed.POST("/products", h.Products.Create, middleware.RequireAdmin())
	authed.PUT("/products/:id", h.Products.Update, middleware.RequireAdmin())
	authed.DELETE("/products/:id", h.Products.Delete, middleware.RequireAdmin())

	authed.GET("/cart", h.Carts.View)
	authed.POST("/cart", h.Carts.AddItem)
	authed.PUT("/cart/:product_id", h.Carts.UpdateItem)
	authed.DELETE("/cart/:product_id", h.Carts.RemoveItem)
}
