package main

import (
	"context"
	"flag"
	"os"

	"atelier-storefront/internal/config"
	"atelier-storefront/internal/db"
	"atelier-storefront/internal/importer"
	"atelier-storefront/internal/logger"
	productrepo "atelier-storefront/internal/repository/product"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "", "path to the product CSV export")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *path == "" {
		log.Fatal("missing -file flag")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal("open csv", zap.Error(err))
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	repo := productrepo.NewPostgres(pool, log)
	n, err := importer.NewCSVImporter(f, repo).Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Int("imported", n), zap.Error(err))
	}
	log.Info("import complete", zap.Int("imported", n))
}
