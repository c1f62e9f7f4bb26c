// Command seed loads the sample market quotes and news into Postgres and,
// with -holdings, imports a CSV file of holdings.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	holdingsCSV := flag.String("holdings", "", "optional CSV file of holdings to import")
	flag.Parse()

	logger := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if cfg.Postgres.URL == "" {
		logger.Fatal("POSTGRES_URL is required")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Postgres.URL, cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Postgres.MigrationDir, logger); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	repo := database.New(db, logger)
	if err := database.Seed(ctx, repo, time.Now()); err != nil {
		logger.Fatalf("seed: %v", err)
	}
	logger.Infof("seeded %d quotes", len(database.SeedQuotes()))

	if *holdingsCSV == "" {
		return
	}
	text, err := os.ReadFile(*holdingsCSV)
	if err != nil {
		logger.Fatalf("read %s: %v", *holdingsCSV, err)
	}
	res, err := service.NewPortfolio(repo, logger).ImportCSV(ctx, string(text))
	if err != nil {
		logger.Fatalf("import %s: %v", *holdingsCSV, err)
	}
	for _, e := range res.Errors {
		logger.Warn(e)
	}
	logger.Infof("imported %d holdings, %d rejected", res.Successful, res.Failed)
}
