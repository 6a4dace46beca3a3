package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/services/moderation"
	"cinescope/proj/internal/storage"
)

type ReviewStorage interface {
	Insert(ctx context.Context, review *models.Review) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	GetForMovie(ctx context.Context, movieID int64) ([]models.Review, error)
	GetForUser(ctx context.Context, userID int64) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type Moderator interface {
	Evaluate(ctx context.Context, text string) (*moderation.Result, error)
}

// ReviewService drives the review lifecycle: moderate, persist, then bring
// the movie aggregate back in line whenever the approved set could have
// changed. Recomputes always read the post-mutation review set.
type ReviewService struct {
	log        *slog.Logger
	storage    ReviewStorage
	movies     MovieStorage
	moderator  Moderator
	aggregator *Aggregator
}

func New(log *slog.Logger, storage ReviewStorage, movies MovieStorage, moderator Moderator, aggregator *Aggregator) *ReviewService {
	return &ReviewService{
		log:        log,
		storage:    storage,
		movies:     movies,
		moderator:  moderator,
		aggregator: aggregator,
	}
}

func validateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Create moderates the comment, persists the review with the verdict and, if
// it came out approved, recomputes the movie aggregate. The moderation result
// is returned alongside the review so callers can render a severity-tiered
// message without reaching into the engine.
func (s *ReviewService) Create(ctx context.Context, movieID, userID int64, comment string, rating float64) (*models.Review, *moderation.Result, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "movieID", movieID, "userID", userID)
	if strings.TrimSpace(comment) == "" {
		return nil, nil, ErrEmptyComment
	}
	if err := validateRating(rating); err != nil {
		return nil, nil, err
	}
	// The movie must exist before anything is persisted: a not-found result
	// leaves no review row behind and no recompute to trip over later.
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if isMovieNotFound(err) {
			log.Info("movie not found")
			return nil, nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, nil, err
	}
	result, err := s.moderator.Evaluate(ctx, comment)
	if err != nil {
		log.Error("moderation failed", "errMsg", err.Error())
		return nil, nil, err
	}
	review, err := s.storage.Insert(ctx, &models.Review{
		MovieID:      movieID,
		UserID:       userID,
		Comment:      comment,
		Rating:       rating,
		IsApproved:   result.IsApproved,
		FlaggedWords: result.ViolationWords,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("review already exists")
			return nil, nil, ErrReviewAlreadyExists
		}
		log.Error(err.Error())
		return nil, nil, err
	}
	if review.IsApproved {
		if err := s.aggregator.Recompute(ctx, movieID); err != nil {
			return nil, nil, err
		}
	}
	return review, result, nil
}

// Update re-moderates only when the comment text actually changed, so an
// edit that touches nothing (or only the rating) never hits the banned-word
// cache. The aggregate is recomputed only if the approval flag or the rating
// value changed. The returned moderation result is nil when no re-moderation
// happened.
func (s *ReviewService) Update(ctx context.Context, id int64, comment *string, rating *float64) (*models.Review, *moderation.Result, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "id", id)
	review, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, nil, err
	}
	textChanged := comment != nil && *comment != review.Comment
	ratingChanged := rating != nil && *rating != review.Rating
	wasApproved := review.IsApproved
	if comment != nil {
		if strings.TrimSpace(*comment) == "" {
			return nil, nil, ErrEmptyComment
		}
		review.Comment = *comment
	}
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return nil, nil, err
		}
		review.Rating = *rating
	}
	var result *moderation.Result
	if textChanged {
		result, err = s.moderator.Evaluate(ctx, review.Comment)
		if err != nil {
			log.Error("moderation failed", "errMsg", err.Error())
			return nil, nil, err
		}
		review.IsApproved = result.IsApproved
		review.FlaggedWords = result.ViolationWords
	}
	updated, err := s.storage.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, nil, err
	}
	if updated.IsApproved != wasApproved || ratingChanged {
		if err := s.aggregator.Recompute(ctx, updated.MovieID); err != nil {
			return nil, nil, err
		}
	}
	return updated, result, nil
}

// Delete recomputes unconditionally: removing an approved review always
// changes the aggregate, and removing a rejected one is a cheap no-op
// recompute. The movie id is captured before the row is gone.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "id", id)
	review, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	movieID := review.MovieID
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return s.aggregator.Recompute(ctx, movieID)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	review, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.With("op", op, "id", id).Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	const op = "reviews.ReviewService.ListForMovie"
	all, err := s.storage.GetForMovie(ctx, movieID)
	if err != nil {
		s.log.With("op", op, "movieID", movieID).Error(err.Error())
		return nil, err
	}
	return all, nil
}

func (s *ReviewService) ListForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	const op = "reviews.ReviewService.ListForUser"
	all, err := s.storage.GetForUser(ctx, userID)
	if err != nil {
		s.log.With("op", op, "userID", userID).Error(err.Error())
		return nil, err
	}
	return all, nil
}
