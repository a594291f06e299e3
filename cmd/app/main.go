package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkraev/lingobook/api"
	"github.com/dkraev/lingobook/config"
	"github.com/dkraev/lingobook/internal/bootstrap"
	"github.com/dkraev/lingobook/internal/cache"
	"github.com/dkraev/lingobook/internal/catalog"
	"github.com/dkraev/lingobook/internal/kafka"
	"github.com/dkraev/lingobook/internal/repository"
	"github.com/dkraev/lingobook/internal/service/booking"
	"github.com/dkraev/lingobook/internal/service/identity"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	cat, err := catalog.Load(cfg.Catalog.SeedPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	sessions := cache.NewRedisSessionStore(cfg.Redis, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	identityService := identity.NewIdentityService(userRepo, sessions)
	ledgerService := booking.NewLedgerService(
		bookingRepo,
		cat,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	authHandler := api.NewAuthHandler(identityService)
	bookingHandler := api.NewBookingHandler(ledgerService)
	catalogHandler := api.NewCatalogHandler(cat)

	if err := bootstrap.Run(ctx, cfg, authHandler, bookingHandler, catalogHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
