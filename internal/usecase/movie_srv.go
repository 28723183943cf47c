package usecase

import (
	"context"
	"errors"
	"fmt"

	"movies-api/internal/data/entity"
	"movies-api/internal/data/repository"
	"movies-api/internal/dto/request"
	"movies-api/internal/dto/response"
	"movies-api/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	GetMovies(ctx context.Context, genre *string) ([]response.MovieResponse, error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo  *repository.Repository
	log   *zap.Logger
	newID func() string
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:  repo,
		log:   log.With(zap.String("service", "movie")),
		newID: utils.GenerateUUIDString,
	}
}

func (s *movieService) GetMovies(ctx context.Context, genre *string) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx, genre)
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Stringp("genre", genre),
		)
		return nil, fmt.Errorf("get movies: %w", err)
	}

	s.log.Info("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Stringp("genre", genre),
	)

	return response.MoviesToResponse(movies), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Movie retrieved",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
	)

	movieResp := response.MovieToResponse(movie)
	return &movieResp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("create movie: nil request")
	}

	rate := 0.0
	if req.Rate != nil {
		rate = *req.Rate
	}

	movie := &entity.Movie{
		ID:       s.newID(),
		Title:    deref(req.Title),
		Year:     deref(req.Year),
		Director: deref(req.Director),
		Duration: deref(req.Duration),
		Poster:   deref(req.Poster),
		Genre:    append([]string{}, req.Genre...),
		Rate:     rate,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID),
		zap.String("title", movie.Title),
		zap.Int("genre_count", len(movie.Genre)),
	)

	movieResp := response.MovieToResponse(movie)
	return &movieResp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("update movie: nil request")
	}

	if req.IsEmpty() {
		return s.GetMovieByID(ctx, movieID)
	}

	// Merge runs inside the repository lock so concurrent patches on
	// different fields never overwrite each other.
	movie, err := s.repo.Movie.Update(ctx, movieID, func(m *entity.Movie) {
		applyPatch(m, req)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("update movie %s: %w", movieID, ErrMovieNotFound)
	}
	if err != nil {
		s.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
	)

	movieResp := response.MovieToResponse(movie)
	return &movieResp, nil
}

// applyPatch overwrites only the fields present in req
func applyPatch(movie *entity.Movie, req *request.MovieUpdateRequest) {
	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Year != nil {
		movie.Year = *req.Year
	}
	if req.Director != nil {
		movie.Director = *req.Director
	}
	if req.Duration != nil {
		movie.Duration = *req.Duration
	}
	if req.Poster != nil {
		movie.Poster = *req.Poster
	}
	if req.Genre != nil {
		movie.Genre = append([]string{}, req.Genre...)
	}
	if req.Rate != nil {
		movie.Rate = *req.Rate
	}
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete movie %s: %w", movieID, ErrMovieNotFound)
		}
		s.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))

	return nil
}

func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find movie %s: %w", movieID, ErrMovieNotFound)
	}
	if err != nil {
		s.log.Error("Failed to get movie by ID",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return movie, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
