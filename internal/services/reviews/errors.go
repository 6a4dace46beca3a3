package reviews

import "errors"

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrReviewAlreadyExists = errors.New("user already reviewed this movie")
	ErrEmptyComment        = errors.New("review comment must not be empty")
	ErrInvalidRating       = errors.New("rating must be between 0 and 5")
)
