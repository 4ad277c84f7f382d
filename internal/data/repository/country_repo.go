package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CountryRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Country, error)
	FindByCode(ctx context.Context, code string) (*entity.Country, error)
	// CreateIfNotExists inserts code and returns the stored row, including
	// one committed concurrently by another transaction.
	CreateIfNotExists(ctx context.Context, code string) (*entity.Country, error)
}

type countryRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewCountryRepository(db database.DBTX, log *zap.Logger) CountryRepository {
	return &countryRepository{
		db:  db,
		log: log.With(zap.String("repository", "country")),
	}
}

func (r *countryRepository) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	query := `SELECT id, code, name FROM countries WHERE id = $1`

	var country entity.Country
	err := r.db.QueryRow(ctx, query, id).Scan(&country.ID, &country.Code, &country.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find country by ID",
			zap.Error(err),
			zap.Int64("country_id", id),
		)
		return nil, fmt.Errorf("find country by id: %w", err)
	}

	return &country, nil
}

func (r *countryRepository) FindByCode(ctx context.Context, code string) (*entity.Country, error) {
	query := `SELECT id, code, name FROM countries WHERE code = $1`

	var country entity.Country
	err := r.db.QueryRow(ctx, query, code).Scan(&country.ID, &country.Code, &country.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find country by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find country by code: %w", err)
	}

	return &country, nil
}

func (r *countryRepository) CreateIfNotExists(ctx context.Context, code string) (*entity.Country, error) {
	query := `
		INSERT INTO countries (code) VALUES ($1)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, code, name
	`

	var country entity.Country
	err := r.db.QueryRow(ctx, query, code).Scan(&country.ID, &country.Code, &country.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		// lost the insert race, the other row is committed by now
		existing, findErr := r.FindByCode(ctx, code)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("country %q vanished after conflict", code)
		}
		return existing, nil
	}
	if err != nil {
		r.log.Error("Failed to create country",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("create country: %w", err)
	}

	r.log.Debug("Country created", zap.String("code", code), zap.Int64("country_id", country.ID))
	return &country, nil
}
