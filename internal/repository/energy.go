package repository

import (
	"context"
	"database/sql"

	"github.com/energydash/energydash-go/internal/model"
)

const factsQuery = `
	SELECT t.month, t.kwh, s.name, ty.name
	FROM energy_tracks t
	JOIN energy_sources s ON t.source_id = s.id
	JOIN energy_types ty ON t.type_id = ty.id`

// EnergyRepository reads the energy fact table and its lookup tables.
// The write methods exist for the seeder.
type EnergyRepository struct {
	db *sql.DB
	q  DBTX
}

// NewEnergyRepository creates a new EnergyRepository.
func NewEnergyRepository(db *sql.DB) *EnergyRepository {
	return &EnergyRepository{db: db, q: db}
}

// InTx runs fn with a repository bound to a single transaction.
func (r *EnergyRepository) InTx(ctx context.Context, fn func(ctx context.Context, tx *EnergyRepository) error) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &EnergyRepository{db: r.db, q: tx})
	})
}

// FactsByType returns every track of the named energy type joined with its
// source and type names.
func (r *EnergyRepository) FactsByType(ctx context.Context, energyType string) ([]model.Fact, error) {
	return r.queryFacts(ctx, factsQuery+` WHERE ty.name = ? ORDER BY t.id`, energyType)
}

// AllFacts returns every track joined with its source and type names.
func (r *EnergyRepository) AllFacts(ctx context.Context) ([]model.Fact, error) {
	return r.queryFacts(ctx, factsQuery+` ORDER BY t.id`)
}

func (r *EnergyRepository) queryFacts(ctx context.Context, query string, args ...any) ([]model.Fact, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	facts := make([]model.Fact, 0)
	for rows.Next() {
		var f model.Fact
		if err := rows.Scan(&f.Month, &f.KWh, &f.Source, &f.Type); err != nil {
			return nil, storageError(err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}

	return facts, nil
}

// ListSources returns the energy sources ordered by id.
func (r *EnergyRepository) ListSources(ctx context.Context) ([]model.EnergySource, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM energy_sources ORDER BY id`)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	sources := make([]model.EnergySource, 0)
	for rows.Next() {
		var s model.EnergySource
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, storageError(err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return sources, nil
}

// ListTypes returns the energy types ordered by id.
func (r *EnergyRepository) ListTypes(ctx context.Context) ([]model.EnergyType, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM energy_types ORDER BY id`)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	types := make([]model.EnergyType, 0)
	for rows.Next() {
		var t model.EnergyType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, storageError(err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return types, nil
}

// DeleteAll removes every track, source and type, children first.
func (r *EnergyRepository) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"energy_tracks", "energy_sources", "energy_types"} {
		if _, err := r.q.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return storageError(err)
		}
	}
	return nil
}

// CreateSource inserts a source and returns its id.
func (r *EnergyRepository) CreateSource(ctx context.Context, name string) (int64, error) {
	return r.insert(ctx, `INSERT INTO energy_sources (name) VALUES (?)`, name)
}

// CreateType inserts an energy type and returns its id.
func (r *EnergyRepository) CreateType(ctx context.Context, name string) (int64, error) {
	return r.insert(ctx, `INSERT INTO energy_types (name) VALUES (?)`, name)
}

// CreateTrack inserts a track and sets its generated id.
func (r *EnergyRepository) CreateTrack(ctx context.Context, track *model.EnergyTrack) error {
	id, err := r.insert(ctx,
		`INSERT INTO energy_tracks (source_id, type_id, month, kwh) VALUES (?, ?, ?, ?)`,
		track.SourceID, track.TypeID, track.Month, track.KWh,
	)
	if err != nil {
		return err
	}
	track.ID = id
	return nil
}

func (r *EnergyRepository) insert(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storageError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageError(err)
	}
	return id, nil
}
