// Command seed replaces the energy tables with a random demo dataset.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/energydash/energydash-go/internal/config"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
	"github.com/energydash/energydash-go/internal/service"
)

func main() {
	seed := flag.Uint64("seed", 0, "random seed; 0 picks one from the clock")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := repository.RunMigrations(ctx, db); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>1))

	svc := service.NewSeedService(repository.NewEnergyRepository(db), rng, model.DefaultSources)
	if _, err := svc.Seed(ctx); err != nil {
		slog.Error("seeding failed", "seed", *seed, "error", err)
		os.Exit(1)
	}
}
