package repository

import (
	"errors"

	"movies-api/internal/data/entity"

	"go.uber.org/zap"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	Movie MovieRepository
}

func NewRepository(seed []*entity.Movie, log *zap.Logger) *Repository {
	return &Repository{
		Movie: NewMovieRepository(seed, log),
	}
}
