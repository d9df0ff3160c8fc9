package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/config"
	"github.com/AlenaMolokova/smmpanel/internal/events"
	"github.com/AlenaMolokova/smmpanel/internal/poller"
	"github.com/AlenaMolokova/smmpanel/internal/provider"
	"github.com/AlenaMolokova/smmpanel/internal/router"
	"github.com/AlenaMolokova/smmpanel/internal/storage"
	"github.com/AlenaMolokova/smmpanel/internal/usecase"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func applyMigrations(databaseURI string) error {
	db, err := sql.Open("pgx", databaseURI)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	log.Println("Database migrations applied successfully")
	return nil
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := applyMigrations(cfg.DatabaseURI); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	db, err := pgxpool.New(context.Background(), cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store, err := storage.NewStorage(db)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}

	client := provider.NewClient(cfg.ProviderURL, cfg.ProviderKey)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AmqpURL != "" {
		producer, err := events.NewProducer(cfg.AmqpURL)
		if err != nil {
			log.Printf("Failed to connect to AMQP, events disabled: %v", err)
		} else {
			publisher = producer
		}
	} else {
		log.Println("AMQP_URL not set, events disabled")
	}
	defer publisher.Close()

	orderUC := usecase.NewOrderUseCase(store, store, client, publisher)
	walletUC := usecase.NewWalletUseCase(store)
	receiptUC := usecase.NewReceiptUseCase(store, publisher)

	statusPoller := poller.New(store, store, orderUC, client, time.Duration(cfg.PollIntervalSec)*time.Second)
	catalogSyncer := poller.NewCatalogSyncer(store, client, time.Duration(cfg.CatalogSyncSec)*time.Second)

	go statusPoller.Start(context.Background())
	go catalogSyncer.Start(context.Background())

	r := router.SetupRoutes(store, orderUC, walletUC, receiptUC, cfg.JWTSecret)

	log.Printf("Starting SMM panel server on %s", cfg.RunAddr)
	if err := http.ListenAndServe(cfg.RunAddr, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
