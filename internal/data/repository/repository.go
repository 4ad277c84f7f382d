package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates a write targeted a row that does not exist
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint rejected the write
	ErrDuplicate = errors.New("repository: duplicate")
)

type Repository struct {
	Movie    MovieRepository
	Country  CountryRepository
	Genre    LookupRepository
	Actor    LookupRepository
	Language LookupRepository
}

func NewRepository(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		Movie:    NewMovieRepository(db, log),
		Country:  NewCountryRepository(db, log),
		Genre:    NewLookupRepository(db, GenreTable, log),
		Actor:    NewLookupRepository(db, ActorTable, log),
		Language: NewLookupRepository(db, LanguageTable, log),
	}
}

// Store runs repository work inside a single transaction. fn's repositories
// are bound to the transaction; returning an error rolls everything back.
type Store interface {
	WithTx(ctx context.Context, fn func(repo *Repository) error) error
	ReadTx(ctx context.Context, fn func(repo *Repository) error) error
	Ping(ctx context.Context) error
}

type pgStore struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStore(db database.PgxIface, log *zap.Logger) Store {
	return &pgStore{
		db:  db,
		log: log,
	}
}

func (s *pgStore) WithTx(ctx context.Context, fn func(repo *Repository) error) error {
	return s.run(ctx, pgx.TxOptions{}, fn)
}

// ReadTx uses a read-only repeatable read snapshot so eager loads see one state
func (s *pgStore) ReadTx(ctx context.Context, fn func(repo *Repository) error) error {
	return s.run(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *pgStore) run(ctx context.Context, opts pgx.TxOptions, fn func(repo *Repository) error) error {
	var fnErr error
	err := pgx.BeginTxFunc(ctx, s.db, opts, func(tx pgx.Tx) error {
		fnErr = fn(NewRepository(tx, s.log))
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin or commit failed, not the callback
		s.log.Error("Transaction failed", zap.Error(err))
		return fmt.Errorf("transaction: %w", err)
	}
	return err
}
