package usecase

import (
	"movie-catalog/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Movie MovieService
}

func NewService(store repository.Store, log *zap.Logger) *Service {
	return &Service{
		Movie: NewMovieService(store, log),
	}
}
