package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LookupTable describes a name-keyed lookup table and its bridge to movies.
type LookupTable struct {
	Entity     string
	Table      string
	JoinTable  string
	JoinColumn string
}

var (
	GenreTable    = LookupTable{Entity: "genre", Table: "genres", JoinTable: "movies_genres", JoinColumn: "genre_id"}
	ActorTable    = LookupTable{Entity: "actor", Table: "actors", JoinTable: "movies_actors", JoinColumn: "actor_id"}
	LanguageTable = LookupTable{Entity: "language", Table: "languages", JoinTable: "movies_languages", JoinColumn: "language_id"}
)

type LookupRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Lookup, error)
	// CreateIfNotExists inserts name and returns the stored row, including
	// one committed concurrently by another transaction.
	CreateIfNotExists(ctx context.Context, name string) (*entity.Lookup, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]entity.Lookup, error)

	// Bridge table operations
	LinkMovie(ctx context.Context, movieID int64, ids []int64) error
}

type lookupRepository struct {
	db    database.DBTX
	table LookupTable
	log   *zap.Logger
}

func NewLookupRepository(db database.DBTX, table LookupTable, log *zap.Logger) LookupRepository {
	return &lookupRepository{
		db:    db,
		table: table,
		log:   log.With(zap.String("repository", table.Entity)),
	}
}

func (r *lookupRepository) FindByName(ctx context.Context, name string) (*entity.Lookup, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE name = $1`, r.table.Table)

	var lookup entity.Lookup
	err := r.db.QueryRow(ctx, query, name).Scan(&lookup.ID, &lookup.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find "+r.table.Entity+" by name",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find %s by name: %w", r.table.Entity, err)
	}

	return &lookup, nil
}

func (r *lookupRepository) CreateIfNotExists(ctx context.Context, name string) (*entity.Lookup, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name
	`, r.table.Table)

	var lookup entity.Lookup
	err := r.db.QueryRow(ctx, query, name).Scan(&lookup.ID, &lookup.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, findErr := r.FindByName(ctx, name)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("%s %q vanished after conflict", r.table.Entity, name)
		}
		return existing, nil
	}
	if err != nil {
		r.log.Error("Failed to create "+r.table.Entity,
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("create %s: %w", r.table.Entity, err)
	}

	r.log.Debug(r.table.Entity+" created", zap.String("name", name), zap.Int64("id", lookup.ID))
	return &lookup, nil
}

func (r *lookupRepository) FindByMovieID(ctx context.Context, movieID int64) ([]entity.Lookup, error) {
	query := fmt.Sprintf(`
		SELECT l.id, l.name
		FROM %s l
		INNER JOIN %s j ON l.id = j.%s
		WHERE j.movie_id = $1
		ORDER BY l.name
	`, r.table.Table, r.table.JoinTable, r.table.JoinColumn)

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find "+r.table.Table+" by movie ID",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("find %s by movie id: %w", r.table.Table, err)
	}
	defer rows.Close()

	lookups := []entity.Lookup{}
	for rows.Next() {
		var lookup entity.Lookup
		if err := rows.Scan(&lookup.ID, &lookup.Name); err != nil {
			r.log.Error("Failed to scan "+r.table.Entity+" row", zap.Error(err))
			return nil, fmt.Errorf("scan %s row: %w", r.table.Entity, err)
		}
		lookups = append(lookups, lookup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.table.Entity, err)
	}

	return lookups, nil
}

// LinkMovie batch-inserts bridge rows; repeated ids link once
func (r *lookupRepository) LinkMovie(ctx context.Context, movieID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(fmt.Sprintf(`INSERT INTO %s (movie_id, %s) VALUES `, r.table.JoinTable, r.table.JoinColumn))

	args := []any{movieID}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if len(args) > 1 {
			query.WriteString(", ")
		}
		args = append(args, id)
		query.WriteString(fmt.Sprintf("($1, $%d)", len(args)))
	}
	query.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := r.db.Exec(ctx, query.String(), args...); err != nil {
		r.log.Error("Failed to link "+r.table.Table+" to movie",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
			zap.Int("count", len(seen)),
		)
		return fmt.Errorf("link %s to movie: %w", r.table.Table, err)
	}

	return nil
}
