package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekbaya/jkuat-navigation/internal/models"
)

const placesSchema = `
CREATE TABLE IF NOT EXISTS places (
	id         BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	short_name TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL
)`

type placeRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
}

// PostgresStore keeps a place catalogue in a PostgreSQL table. The position
// column preserves catalogue order, which decides name collisions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool to databaseURL and checks connectivity.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the places table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, placesSchema); err != nil {
		return fmt.Errorf("failed to create places table: %w", err)
	}
	return nil
}

// Places returns the catalogue in order. It satisfies catalog.Source.
func (s *PostgresStore) Places(ctx context.Context) ([]models.Place, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, short_name FROM places ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[placeRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read places: %w", err)
	}

	places := make([]models.Place, len(records))
	for i, r := range records {
		places[i] = models.Place{ID: r.ID, Name: r.Name, ShortName: r.ShortName}
	}
	return places, nil
}

// ReplacePlaces swaps the whole catalogue in one transaction.
func (s *PostgresStore) ReplacePlaces(ctx context.Context, places []models.Place) error {
	for _, p := range places {
		if !p.HasID() {
			return fmt.Errorf("place %q has no id", p.Name)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM places`); err != nil {
		return fmt.Errorf("failed to clear places: %w", err)
	}
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"places"},
		[]string{"id", "name", "short_name", "position"},
		pgx.CopyFromSlice(len(places), func(i int) ([]any, error) {
			p := places[i]
			return []any{p.ID, p.Name, p.ShortName, i}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy places: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit places: %w", err)
	}

	log.Printf("Stored %d places in postgres", n)
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
