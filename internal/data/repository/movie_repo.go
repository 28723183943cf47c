package repository

import (
	"context"
	"fmt"
	"sync"

	"movies-api/internal/data/entity"

	"go.uber.org/zap"
)

type MovieRepository interface {
	// CRUD Movie
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id string) (*entity.Movie, error)
	// Update applies fn to the stored movie under the write lock and
	// returns a copy of the result.
	Update(ctx context.Context, id string, fn func(*entity.Movie)) (*entity.Movie, error)
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context, genre *string) ([]*entity.Movie, error)

	Count(ctx context.Context) int
}

// movieRepository keeps movies in insertion order. Lookups are linear scans.
type movieRepository struct {
	mu     sync.RWMutex
	movies []*entity.Movie
	log    *zap.Logger
}

func NewMovieRepository(seed []*entity.Movie, log *zap.Logger) MovieRepository {
	movies := make([]*entity.Movie, 0, len(seed))
	for _, m := range seed {
		if m == nil {
			continue
		}
		movies = append(movies, m.Clone())
	}

	return &movieRepository{
		movies: movies,
		log:    log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	if movie == nil {
		return fmt.Errorf("failed to create movie: nil movie")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(movie.ID) >= 0 {
		r.log.Error("Duplicate movie id", zap.String("movie_id", movie.ID))
		return fmt.Errorf("failed to create movie: id %s already exists", movie.ID)
	}

	r.movies = append(r.movies, movie.Clone())

	r.log.Debug("Movie stored",
		zap.String("movie_id", movie.ID),
		zap.Int("total", len(r.movies)),
	)

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}

	return r.movies[i].Clone(), nil
}

func (r *movieRepository) FindAll(ctx context.Context, genre *string) ([]*entity.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movies := make([]*entity.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		if genre != nil && *genre != "" && !m.HasGenre(*genre) {
			continue
		}
		movies = append(movies, m.Clone())
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Stringp("genre", genre),
	)

	return movies, nil
}

func (r *movieRepository) Update(ctx context.Context, id string, fn func(*entity.Movie)) (*entity.Movie, error) {
	if fn == nil {
		return nil, fmt.Errorf("failed to update movie: nil update func")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}

	movie := r.movies[i].Clone()
	fn(movie)
	// The id is the lookup key; fn cannot move a record.
	movie.ID = id

	r.movies[i] = movie
	return movie.Clone(), nil
}

func (r *movieRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}

	r.movies = append(r.movies[:i], r.movies[i+1:]...)

	r.log.Info("Movie removed", zap.String("movie_id", id))
	return nil
}

func (r *movieRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies)
}

// indexOf must be called with mu held.
func (r *movieRepository) indexOf(id string) int {
	for i, m := range r.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}
