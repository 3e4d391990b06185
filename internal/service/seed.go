package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/energydash/energydash-go/internal/aggregate"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
)

// kwhRange bounds the random kWh drawn per energy type.
type kwhRange struct{ min, max float64 }

var seedRanges = map[string]kwhRange{
	model.TypeGeneration:  {200, 1000},
	model.TypeConsumption: {100, 600},
}

var seedTypes = []string{model.TypeGeneration, model.TypeConsumption}

const (
	minSeedMonths = 6
	maxSeedMonths = aggregate.MonthsPerYear
)

// SeedTrack is one track the seeder will insert.
type SeedTrack struct {
	Source string
	Type   string
	Month  int
	KWh    float64
}

// SeedResult counts the rows written by a seed run.
type SeedResult struct {
	Types   int
	Sources int
	Tracks  int
}

// SeedService replaces the energy dataset with random demo data.
type SeedService struct {
	repo    *repository.EnergyRepository
	rng     *rand.Rand
	sources []string
}

// NewSeedService creates a SeedService seeding the given sources.
func NewSeedService(repo *repository.EnergyRepository, rng *rand.Rand, sources []string) *SeedService {
	return &SeedService{repo: repo, rng: rng, sources: sources}
}

// Plan draws the tracks for one seed run: for every source and type, a
// random set of 6 to 12 distinct months, each with a kWh value rounded to
// two decimals.
func (s *SeedService) Plan() []SeedTrack {
	var plan []SeedTrack
	for _, src := range s.sources {
		for _, typ := range seedTypes {
			r := seedRanges[typ]
			n := minSeedMonths + s.rng.IntN(maxSeedMonths-minSeedMonths+1)
			months := s.rng.Perm(aggregate.MonthsPerYear)[:n]
			sort.Ints(months)
			for _, m := range months {
				kwh := r.min + s.rng.Float64()*(r.max-r.min)
				plan = append(plan, SeedTrack{
					Source: src,
					Type:   typ,
					Month:  m + 1,
					KWh:    math.Round(kwh*100) / 100,
				})
			}
		}
	}
	return plan
}

// Seed clears the energy tables and inserts a freshly planned dataset in a
// single transaction.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	plan := s.Plan()

	var res SeedResult
	err := s.repo.InTx(ctx, func(ctx context.Context, tx *repository.EnergyRepository) error {
		if err := tx.DeleteAll(ctx); err != nil {
			return err
		}

		typeIDs := make(map[string]int64, len(seedTypes))
		for _, name := range seedTypes {
			id, err := tx.CreateType(ctx, name)
			if err != nil {
				return fmt.Errorf("create type %s: %w", name, err)
			}
			typeIDs[name] = id
		}

		sourceIDs := make(map[string]int64, len(s.sources))
		for _, name := range s.sources {
			id, err := tx.CreateSource(ctx, name)
			if err != nil {
				return fmt.Errorf("create source %s: %w", name, err)
			}
			sourceIDs[name] = id
		}

		for _, p := range plan {
			track := model.EnergyTrack{
				SourceID: sourceIDs[p.Source],
				TypeID:   typeIDs[p.Type],
				Month:    p.Month,
				KWh:      p.KWh,
			}
			if err := tx.CreateTrack(ctx, &track); err != nil {
				return fmt.Errorf("create track: %w", err)
			}
		}

		res = SeedResult{Types: len(typeIDs), Sources: len(sourceIDs), Tracks: len(plan)}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	slog.Info("energy data seeded", "types", res.Types, "sources", res.Sources, "tracks", res.Tracks)
	return res, nil
}
