package main

import (
	"context"

	"atelier-storefront/internal/config"
	"atelier-storefront/internal/db"
	"atelier-storefront/internal/logger"
	"atelier-storefront/internal/seed"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}
	log.Info("seed applied")
}
