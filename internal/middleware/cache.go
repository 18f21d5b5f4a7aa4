package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ecommerce-api/internal/config"
)

// captureWriter captures the response body and status while forwarding
// both to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// ProductCache caches catalog GET responses in Redis so repeated listing
// requests skip MongoDB. Admin mutations call Invalidate to drop every
// cached page.
type ProductCache struct {
	rdb *redis.Client
	cfg config.CacheConfig
}

func NewProductCache(rdb *redis.Client, cfg config.CacheConfig) *ProductCache {
	return &ProductCache{rdb: rdb, cfg: cfg}
}

func (p *ProductCache) enabled() bool {
	return p != nil && p.rdb != nil && p.cfg.Enabled
}

func (p *ProductCache) key(c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", p.cfg.Prefix, sum[:])
}

// Middleware serves cached catalog responses and stores fresh 200s.
func (p *ProductCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.enabled() || c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := p.key(c)
			if bs, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, bs)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				_ = p.rdb.SetEx(context.Background(), key, cw.buf.Bytes(), p.cfg.TTL).Err()
			}
			return nil
		}
	}
}

// Invalidate removes every cached catalog entry. It runs after create,
// update and delete so listings never serve stale pages.
func (p *ProductCache) Invalidate(ctx context.Context) {
	if !p.enabled() {
		return
	}
	iter := p.rdb.Scan(ctx, 0, p.cfg.Prefix+":*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = p.rdb.Del(ctx, keys...).Err()
	}
}
