package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgNoMovies        = "No movies found."
	msgMovieNotFound   = "Movie with the given ID was not found."
	msgInvalidInput    = "Invalid input data."
	msgMovieDuplicated = "A movie with the name '%s' and release date '%s' already exists."
)

type MovieService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID int64) (*response.MovieDetailResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieDetailResponse, error)
	UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieDetailResponse, error)
	DeleteMovie(ctx context.Context, movieID int64) error
}

type movieService struct {
	store repository.Store
	log   *zap.Logger
}

func NewMovieService(
	store repository.Store,
	log *zap.Logger,
) MovieService {
	return &movieService{
		store: store,
		log:   log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newError(ErrInvalidInput, utils.FormatValidationErrors(errs), nil)
	}

	var (
		movies []*entity.Movie
		total  int64
	)
	err := s.store.ReadTx(ctx, func(repo *repository.Repository) error {
		var err error
		if total, err = repo.Movie.CountAll(ctx); err != nil {
			return fmt.Errorf("count movies: %w", err)
		}
		if total == 0 {
			return nil
		}
		movies, err = repo.Movie.FindAll(ctx, req.Limit(), req.Offset())
		if err != nil {
			return fmt.Errorf("get movies: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, err
	}

	// An out-of-range page on a non-empty catalog is reported the same way
	if total == 0 || len(movies) == 0 {
		return nil, newError(ErrEmptyResult, msgNoMovies, nil)
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie)
	}

	s.log.Info("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
	)

	return response.NewPaginatedResponse(movieResponses, req.Page, req.PerPage, total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID int64) (*response.MovieDetailResponse, error) {
	var movie *entity.Movie
	err := s.store.ReadTx(ctx, func(repo *repository.Repository) error {
		var err error
		movie, err = loadMovieDetail(ctx, repo, movieID)
		return err
	})
	if err != nil {
		s.log.Error("Failed to get movie by ID",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, err
	}

	if movie == nil {
		return nil, newError(ErrNotFound, msgMovieNotFound, nil)
	}

	s.log.Info("Movie retrieved",
		zap.Int64("movie_id", movieID),
		zap.String("name", movie.Name),
	)

	detail := response.MovieToDetailResponse(movie)
	return &detail, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, newError(ErrInvalidInput, utils.FormatValidationErrors(errs), nil)
	}

	conflict := newError(ErrConflict, fmt.Sprintf(msgMovieDuplicated, *req.Name, req.Date.String()), nil)

	var created *entity.Movie
	err := s.store.WithTx(ctx, func(repo *repository.Repository) error {
		existing, err := repo.Movie.FindByNameAndDate(ctx, *req.Name, req.Date.Time)
		if err != nil {
			return fmt.Errorf("check duplicate movie: %w", err)
		}
		if existing != nil {
			return conflict
		}

		country, err := s.resolveCountry(ctx, repo, *req.Country)
		if err != nil {
			return err
		}

		genres, err := s.resolveLookups(ctx, repo.Genre, req.Genres)
		if err != nil {
			return fmt.Errorf("resolve genres: %w", err)
		}
		actors, err := s.resolveLookups(ctx, repo.Actor, req.Actors)
		if err != nil {
			return fmt.Errorf("resolve actors: %w", err)
		}
		languages, err := s.resolveLookups(ctx, repo.Language, req.Languages)
		if err != nil {
			return fmt.Errorf("resolve languages: %w", err)
		}

		movie := &entity.Movie{
			Name:      *req.Name,
			Date:      req.Date.Time,
			Score:     *req.Score,
			Overview:  *req.Overview,
			Status:    entity.MovieStatus(req.Status),
			Budget:    *req.Budget,
			Revenue:   *req.Revenue,
			CountryID: country.ID,
		}

		if err := repo.Movie.Create(ctx, movie); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return newError(ErrConflict, conflict.Detail, err)
			}
			return fmt.Errorf("create movie: %w", err)
		}

		if err := repo.Genre.LinkMovie(ctx, movie.ID, lookupIDs(genres)); err != nil {
			return err
		}
		if err := repo.Actor.LinkMovie(ctx, movie.ID, lookupIDs(actors)); err != nil {
			return err
		}
		if err := repo.Language.LinkMovie(ctx, movie.ID, lookupIDs(languages)); err != nil {
			return err
		}

		// Reload so the response reflects exactly what was stored
		created, err = loadMovieDetail(ctx, repo, movie.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.log.Warn("Create movie rejected - duplicate",
				zap.String("name", *req.Name),
				zap.String("date", req.Date.String()),
			)
			return nil, err
		}
		s.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("name", *req.Name),
		)
		return nil, err
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", created.ID),
		zap.String("name", created.Name),
		zap.Int("genre_count", len(created.Genres)),
		zap.Int("actor_count", len(created.Actors)),
		zap.Int("language_count", len(created.Languages)),
	)

	detail := response.MovieToDetailResponse(created)
	return &detail, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update movie validation failed", zap.Any("errors", errs))
		return nil, newError(ErrInvalidInput, utils.FormatValidationErrors(errs), nil)
	}

	changes := movieChanges(req)

	var (
		updated  *entity.Movie
		notFound bool
	)
	err := s.store.WithTx(ctx, func(repo *repository.Repository) error {
		movie, err := repo.Movie.FindByID(ctx, movieID)
		if err != nil {
			return fmt.Errorf("find movie: %w", err)
		}
		if movie == nil {
			notFound = true
			return newError(ErrNotFound, msgMovieNotFound, nil)
		}

		if err := repo.Movie.Update(ctx, movieID, changes); err != nil {
			return err
		}

		updated, err = loadMovieDetail(ctx, repo, movieID)
		return err
	})
	if err != nil {
		if notFound {
			return nil, err
		}
		// Every persistence failure collapses into one client-facing kind
		s.log.Warn("Failed to update movie",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
			zap.Strings("columns", changes.Columns()),
		)
		return nil, newError(ErrInvalidInput, msgInvalidInput, err)
	}

	s.log.Info("Movie updated",
		zap.Int64("movie_id", movieID),
		zap.Strings("columns", changes.Columns()),
		zap.Bool("was_updated", !changes.Empty()),
	)

	detail := response.MovieToDetailResponse(updated)
	return &detail, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID int64) error {
	var title string
	err := s.store.WithTx(ctx, func(repo *repository.Repository) error {
		movie, err := repo.Movie.FindByID(ctx, movieID)
		if err != nil {
			return fmt.Errorf("find movie: %w", err)
		}
		if movie == nil {
			return newError(ErrNotFound, msgMovieNotFound, nil)
		}
		title = movie.Name

		return repo.Movie.Delete(ctx, movieID)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Failed to delete movie",
				zap.Error(err),
				zap.Int64("movie_id", movieID),
			)
		}
		return err
	}

	s.log.Info("Movie deleted",
		zap.Int64("movie_id", movieID),
		zap.String("name", title),
	)

	return nil
}

// resolveCountry is get-or-create keyed by country code
func (s *movieService) resolveCountry(ctx context.Context, repo *repository.Repository, code string) (*entity.Country, error) {
	country, err := repo.Country.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find country: %w", err)
	}
	if country != nil {
		return country, nil
	}

	country, err = repo.Country.CreateIfNotExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("create country: %w", err)
	}
	s.log.Debug("Country created", zap.String("code", code), zap.Int64("country_id", country.ID))
	return country, nil
}

// resolveLookups is get-or-create per name, in list order
func (s *movieService) resolveLookups(ctx context.Context, lookups repository.LookupRepository, names []string) ([]entity.Lookup, error) {
	resolved := make([]entity.Lookup, 0, len(names))
	for _, name := range names {
		lookup, err := lookups.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if lookup == nil {
			if lookup, err = lookups.CreateIfNotExists(ctx, name); err != nil {
				return nil, err
			}
		}
		resolved = append(resolved, *lookup)
	}
	return resolved, nil
}

// loadMovieDetail eager-loads country and collections; nil when the movie is absent
func loadMovieDetail(ctx context.Context, repo *repository.Repository, movieID int64) (*entity.Movie, error) {
	movie, err := repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, nil
	}

	if movie.Country, err = repo.Country.FindByID(ctx, movie.CountryID); err != nil {
		return nil, fmt.Errorf("load country: %w", err)
	}
	if movie.Genres, err = repo.Genre.FindByMovieID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	if movie.Actors, err = repo.Actor.FindByMovieID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("load actors: %w", err)
	}
	if movie.Languages, err = repo.Language.FindByMovieID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}

	return movie, nil
}

// movieChanges keeps only the fields present in the payload; explicit nulls write NULL
func movieChanges(req *request.MovieUpdateRequest) repository.MovieChanges {
	var changes repository.MovieChanges

	if req.Name.Set {
		changes.Set(repository.ColumnName, req.Name.Ptr())
	}
	if req.Date.Set {
		var date any
		if d := req.Date.Ptr(); d != nil {
			date = d.Time
		}
		changes.Set(repository.ColumnDate, date)
	}
	if req.Score.Set {
		changes.Set(repository.ColumnScore, req.Score.Ptr())
	}
	if req.Overview.Set {
		changes.Set(repository.ColumnOverview, req.Overview.Ptr())
	}
	if req.Status.Set {
		changes.Set(repository.ColumnStatus, req.Status.Ptr())
	}
	if req.Budget.Set {
		changes.Set(repository.ColumnBudget, req.Budget.Ptr())
	}
	if req.Revenue.Set {
		changes.Set(repository.ColumnRevenue, req.Revenue.Ptr())
	}

	return changes
}

func lookupIDs(lookups []entity.Lookup) []int64 {
	ids := make([]int64, len(lookups))
	for i, lookup := range lookups {
		ids[i] = lookup.ID
	}
	return ids
}
