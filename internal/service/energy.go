package service

import (
	"context"
	"log/slog"

	"github.com/energydash/energydash-go/internal/aggregate"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/validation"
)

// FactStore reads energy facts and reference data.
type FactStore interface {
	FactsByType(ctx context.Context, energyType string) ([]model.Fact, error)
	AllFacts(ctx context.Context) ([]model.Fact, error)
	ListSources(ctx context.Context) ([]model.EnergySource, error)
	ListTypes(ctx context.Context) ([]model.EnergyType, error)
}

// EnergyService serves the chart views over the energy fact table.
type EnergyService struct {
	store   FactStore
	sources []string
}

// NewEnergyService creates an EnergyService rendering the given source
// columns in the trend and composition views.
func NewEnergyService(store FactStore, sources []string) *EnergyService {
	return &EnergyService{store: store, sources: sources}
}

// Trends returns the twelve-month per-source view for an energy type.
func (s *EnergyService) Trends(ctx context.Context, energyType string) ([]model.TrendPoint, error) {
	facts, err := s.facts(ctx, energyType)
	if err != nil {
		return nil, err
	}
	s.warnUnknownSources(energyType, facts)
	return aggregate.Trends(facts, s.sources), nil
}

// Composition returns the stacked-bar view. It has the same shape as Trends.
func (s *EnergyService) Composition(ctx context.Context, energyType string) ([]model.TrendPoint, error) {
	facts, err := s.facts(ctx, energyType)
	if err != nil {
		return nil, err
	}
	s.warnUnknownSources(energyType, facts)
	return aggregate.Composition(facts, s.sources), nil
}

// Summary returns total kWh per source for an energy type.
func (s *EnergyService) Summary(ctx context.Context, energyType string) ([]model.SummaryPoint, error) {
	facts, err := s.facts(ctx, energyType)
	if err != nil {
		return nil, err
	}
	return aggregate.Summary(facts), nil
}

// Composed returns monthly totals alongside the highlighted source.
func (s *EnergyService) Composed(ctx context.Context, energyType, highlight string) ([]model.ComposedPoint, error) {
	if highlight == "" {
		return nil, validation.Required("highlight")
	}
	facts, err := s.facts(ctx, energyType)
	if err != nil {
		return nil, err
	}
	return aggregate.Composed(facts, highlight), nil
}

// Tracks returns every (source, type) series with its monthly totals.
func (s *EnergyService) Tracks(ctx context.Context) ([]model.TrackPoint, error) {
	facts, err := s.store.AllFacts(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Tracks(facts), nil
}

// Sources lists the energy sources known to the store.
func (s *EnergyService) Sources(ctx context.Context) ([]model.EnergySource, error) {
	return s.store.ListSources(ctx)
}

// Types lists the energy types known to the store.
func (s *EnergyService) Types(ctx context.Context) ([]model.EnergyType, error) {
	return s.store.ListTypes(ctx)
}

func (s *EnergyService) facts(ctx context.Context, energyType string) ([]model.Fact, error) {
	if energyType == "" {
		return nil, validation.Required("energy_type")
	}
	return s.store.FactsByType(ctx, energyType)
}

func (s *EnergyService) warnUnknownSources(energyType string, facts []model.Fact) {
	if unknown := aggregate.UnknownSources(facts, s.sources); len(unknown) > 0 {
		slog.Warn("energy sources missing from trend columns", "energy_type", energyType, "sources", unknown)
	}
}
