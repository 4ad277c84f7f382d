package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Updatable movie columns
const (
	ColumnName     = "name"
	ColumnDate     = "date"
	ColumnScore    = "score"
	ColumnOverview = "overview"
	ColumnStatus   = "status"
	ColumnBudget   = "budget"
	ColumnRevenue  = "revenue"
)

const movieColumns = `id, name, date, score, overview, status, budget, revenue, country_id`

const pgUniqueViolation = "23505"

// MovieChanges is an ordered set of column assignments for a partial update.
// A nil value is written as NULL.
type MovieChanges struct {
	columns []string
	values  []any
}

func (c *MovieChanges) Set(column string, value any) {
	for i, existing := range c.columns {
		if existing == column {
			c.values[i] = value
			return
		}
	}
	c.columns = append(c.columns, column)
	c.values = append(c.values, value)
}

func (c MovieChanges) Empty() bool {
	return len(c.columns) == 0
}

func (c MovieChanges) Columns() []string {
	return append([]string(nil), c.columns...)
}

// Each visits assignments in insertion order
func (c MovieChanges) Each(fn func(column string, value any)) {
	for i, column := range c.columns {
		fn(column, c.values[i])
	}
}

type MovieRepository interface {
	// CRUD Movie
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id int64) (*entity.Movie, error)
	FindByNameAndDate(ctx context.Context, name string, date time.Time) (*entity.Movie, error)
	Update(ctx context.Context, id int64, changes MovieChanges) error
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Movie, error)
	CountAll(ctx context.Context) (int64, error)
}

type movieRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewMovieRepository(db database.DBTX, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (name, date, score, overview, status, budget, revenue, country_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		movie.Name,
		movie.Date,
		movie.Score,
		movie.Overview,
		string(movie.Status),
		movie.Budget,
		movie.Revenue,
		movie.CountryID,
	).Scan(&movie.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("create movie %q: %w", movie.Name, ErrDuplicate)
		}
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("name", movie.Name),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

func (r *movieRepository) FindByNameAndDate(ctx context.Context, name string, date time.Time) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE name = $1 AND date = $2`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, name, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by name and date",
			zap.Error(err),
			zap.String("name", name),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return total, nil
}

// Update assigns only the columns present in changes
func (r *movieRepository) Update(ctx context.Context, id int64, changes MovieChanges) error {
	if changes.Empty() {
		return nil
	}

	sets := make([]string, len(changes.columns))
	args := make([]any, 0, len(changes.values)+1)
	args = append(args, id)
	for i, column := range changes.columns {
		sets[i] = fmt.Sprintf("%s = $%d", column, i+2)
		args = append(args, changes.values[i])
	}

	query := fmt.Sprintf(`UPDATE movies SET %s WHERE id = $1`, strings.Join(sets, ", "))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Warn("Failed to update movie",
			zap.Error(err),
			zap.Int64("movie_id", id),
			zap.Strings("columns", changes.columns),
		)
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update movie %d: %w", id, ErrNotFound)
	}

	return nil
}

// Delete removes the movie row; join rows go with it via ON DELETE CASCADE
func (r *movieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %d: %w", id, ErrNotFound)
	}

	r.log.Info("Movie deleted", zap.Int64("movie_id", id))
	return nil
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var (
		movie  entity.Movie
		status string
	)
	err := row.Scan(
		&movie.ID,
		&movie.Name,
		&movie.Date,
		&movie.Score,
		&movie.Overview,
		&status,
		&movie.Budget,
		&movie.Revenue,
		&movie.CountryID,
	)
	if err != nil {
		return nil, err
	}
	movie.Status = entity.MovieStatus(status)
	return &movie, nil
}
