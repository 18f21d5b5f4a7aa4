package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-api/internal/auth"
	"github.com/iliyamo/ecommerce-api/internal/cart"
	"github.com/iliyamo/ecommerce-api/internal/config"
	"github.com/iliyamo/ecommerce-api/internal/database"
	"github.com/iliyamo/ecommerce-api/internal/email"
	"github.com/iliyamo/ecommerce-api/internal/handler"
	"github.com/iliyamo/ecommerce-api/internal/middleware"
	"github.com/iliyamo/ecommerce-api/internal/queue"
	"github.com/iliyamo/ecommerce-api/internal/repository"
	"github.com/iliyamo/ecommerce-api/internal/router"
	queuepublisher "github.com/iliyamo/ecommerce-api/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("indexes: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	refreshTokens := repository.NewTokenRepo(db)
	carts := repository.NewCartRepo(db)

	tokens, err := auth.NewTokenService(
		refreshTokens,
		cfg.JWTSecret,
		cfg.JWTAlgorithm,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	engine := cart.NewEngine(carts)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response caching disabled")
	}
	cache := middleware.NewProductCache(rdb, config.LoadCacheConfig())

	// The mail pipeline is optional: without a sender address the reset
	// endpoint still works and returns the token in the response.
	if cfg.SenderEmail != "" {
		sender, err := email.NewSender(context.Background(),
			cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey,
			cfg.SenderEmail, cfg.ResetURLBase)
		if err != nil {
			log.Fatalf("email sender: %v", err)
		}
		go func() {
			if err := queue.StartResetEmailConsumer(cfg.AMQPURL, sender); err != nil {
				log.Printf("reset-consumer stopped: %v", err)
			}
		}()
	}

	publish := func(ctx context.Context, ev queue.PasswordResetRequestedEvent) error {
		return queuepublisher.PublishPasswordResetRequested(ctx, cfg.AMQPURL, ev)
	}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens, publish),
		Users:    handler.NewUserHandler(users),
		Products: handler.NewProductHandler(products, cache),
		Carts:    handler.NewCartHandler(engine),
	}

	e := echo.New()
	router.RegisterRoutes(e, h, tokens, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
