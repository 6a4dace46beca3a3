package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cinescope/proj/internal/domain/fields"
	"cinescope/proj/internal/domain/filters"
	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"

	gocache "github.com/patrickmn/go-cache"
)

type MoviesStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Insert(ctx context.Context, title string, year int32, runtime fields.MovieRuntime, genres []string) (*models.Movie, error)
	List(ctx context.Context, title string, genres []string, filters filters.Filters) ([]models.Movie, int, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	UpdateAggregate(ctx context.Context, movieID int64, rating float64, reviewCount int) error
	Delete(ctx context.Context, id int64) error
}

type MovieService struct {
	log     *slog.Logger
	storage MoviesStorage
	cache   *gocache.Cache
}

func New(log *slog.Logger, storage MoviesStorage, cacheTTL time.Duration) *MovieService {
	return &MovieService{
		log:     log,
		storage: storage,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("movie:%d", id)
}

// cloneMovie deep-copies the one reference field so a cached entry never
// shares a Genres backing array with anything handed to a caller.
func cloneMovie(m models.Movie) models.Movie {
	out := m
	out.Genres = append([]string(nil), m.Genres...)
	return out
}

// Get serves movie details through the TTL cache. The cache holds values,
// not pointers, and every hit returns a fresh copy: callers are free to
// mutate the result without that mutation ever leaking into the cache or
// into concurrent readers.
func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	if cached, ok := s.cache.Get(cacheKey(id)); ok {
		movie := cloneMovie(cached.(models.Movie))
		return &movie, nil
	}
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	s.cache.SetDefault(cacheKey(id), cloneMovie(*movie))
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, title string, year int32, runtime fields.MovieRuntime, genres []string) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", title, "year", year)
	movie, err := s.storage.Insert(ctx, title, year, runtime, genres)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, title string, genres []string, f filters.Filters) ([]models.Movie, int, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op)
	movies, total, err := s.storage.List(ctx, title, genres, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return movies, total, nil
}

func (s *MovieService) Update(ctx context.Context, id int64, title string, year int32, runtime fields.MovieRuntime, genres []string) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != "" {
		movie.Title = title
	}
	if year != 0 {
		movie.Year = year
	}
	if runtime != 0 {
		movie.Runtime = runtime
	}
	if genres != nil {
		movie.Genres = genres
	}
	updatedMovie, err := s.storage.Update(ctx, movie)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error("Error updating movie: " + err.Error())
		return nil, err
	}
	s.cache.Delete(cacheKey(id))
	return updatedMovie, nil
}

// UpdateAggregate lets the review pipeline write the denormalized summary
// through the same service so the read-through cache never serves a movie
// with a stale aggregate.
func (s *MovieService) UpdateAggregate(ctx context.Context, movieID int64, rating float64, reviewCount int) error {
	const op = "movies.MovieService.UpdateAggregate"
	if err := s.storage.UpdateAggregate(ctx, movieID, rating, reviewCount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMovieNotFound
		}
		s.log.With("op", op, "movieID", movieID).Error(err.Error())
		return err
	}
	s.cache.Delete(cacheKey(movieID))
	return nil
}

func (s *MovieService) Delete(ctx context.Context, id int64) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	s.cache.Delete(cacheKey(id))
	return nil
}
