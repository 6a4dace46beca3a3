package reviews

import (
	"context"
	"errors"
	"log/slog"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/services/movies"
	"cinescope/proj/internal/storage"
)

// MovieStorage is satisfied by *movies.MovieService, which routes aggregate
// writes through its read-through cache so invalidation happens in one place.
type MovieStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	UpdateAggregate(ctx context.Context, movieID int64, rating float64, reviewCount int) error
}

func isMovieNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, movies.ErrMovieNotFound)
}

// Aggregator recomputes a movie's denormalized review summary from the full
// set of approved reviews. It takes no locks: each recompute always runs
// after the mutation that triggered it, and racing recomputes for one movie
// resolve last-write-wins.
type Aggregator struct {
	log     *slog.Logger
	reviews ReviewStorage
	movies  MovieStorage
}

func NewAggregator(log *slog.Logger, reviews ReviewStorage, movies MovieStorage) *Aggregator {
	return &Aggregator{
		log:     log,
		reviews: reviews,
		movies:  movies,
	}
}

// Recompute is idempotent: with no intervening review writes, a second run
// persists the same average and count. An empty approved set resets both
// to zero.
func (a *Aggregator) Recompute(ctx context.Context, movieID int64) error {
	const op = "reviews.Aggregator.Recompute"
	log := a.log.With("op", op, "movieID", movieID)
	if _, err := a.movies.Get(ctx, movieID); err != nil {
		if isMovieNotFound(err) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	all, err := a.reviews.GetForMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	var sum float64
	count := 0
	for _, r := range all {
		if !r.IsApproved {
			continue
		}
		sum += r.Rating
		count++
	}
	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	}
	if err := a.movies.UpdateAggregate(ctx, movieID, avg, count); err != nil {
		if isMovieNotFound(err) {
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Debug("aggregate recomputed", "rating", avg, "reviewCount", count)
	return nil
}
