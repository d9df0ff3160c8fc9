package config

import (
	"errors"
	"flag"
	"log"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	RunAddr         string `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI     string `env:"DATABASE_URI"`
	ProviderURL     string `env:"PROVIDER_URL" envDefault:"https://provider.example.com/api/v2"`
	ProviderKey     string `env:"PROVIDER_KEY"`
	AmqpURL         string `env:"AMQP_URL"`
	JWTSecret       string `env:"JWT_SECRET"`
	PollIntervalSec int    `env:"POLL_INTERVAL" envDefault:"3600"`
	CatalogSyncSec  int    `env:"CATALOG_SYNC_INTERVAL" envDefault:"21600"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "server address")
	flag.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "database URI")
	flag.StringVar(&cfg.ProviderURL, "r", cfg.ProviderURL, "SMM provider API address")
	flag.StringVar(&cfg.ProviderKey, "k", cfg.ProviderKey, "SMM provider API key")
	flag.IntVar(&cfg.PollIntervalSec, "p", cfg.PollIntervalSec, "status poll interval in seconds")
	flag.Parse()

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = constants.DefaultJWTSecret
		log.Println("JWT_SECRET not set, using default")
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = constants.DefaultPollIntervalSec
	}
	if cfg.CatalogSyncSec <= 0 {
		cfg.CatalogSyncSec = constants.DefaultCatalogSyncSec
	}

	if cfg.DatabaseURI == "" {
		log.Printf("Error: DATABASE_URI is empty")
		return nil, errors.New("DATABASE_URI is required")
	}
	if cfg.ProviderKey == "" {
		log.Printf("Error: PROVIDER_KEY is empty")
		return nil, errors.New("PROVIDER_KEY is required")
	}

	log.Printf("Config loaded: RunAddr=%s, ProviderURL=%s, PollInterval=%ds, CatalogSync=%ds",
		cfg.RunAddr, cfg.ProviderURL, cfg.PollIntervalSec, cfg.CatalogSyncSec)
	return cfg, nil
}
