package main

import (
	"errors"
	"fmt"
	"net/http"

	"cinescope/proj/internal/lib/validator"
	"cinescope/proj/internal/services/moderation"
	"cinescope/proj/internal/services/reviews"
)

type createReviewInput struct {
	Comment string  `json:"comment" validate:"required,max=10000"`
	Rating  float64 `json:"rating" validate:"min=0,max=5"`
}

type updateReviewInput struct {
	Comment *string  `json:"comment" validate:"omitempty,max=10000"`
	Rating  *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
}

// moderationNotice turns a rejected moderation result into a user-facing
// message whose wording scales with the summed severity of the violations.
func moderationNotice(res *moderation.Result) string {
	switch {
	case res.SeverityScore >= 10:
		return fmt.Sprintf(
			"Your review severely violates our content policy and was hidden (flagged: %v)",
			res.ViolationWords,
		)
	case res.SeverityScore >= 5:
		return fmt.Sprintf(
			"Your review contains serious inappropriate language and was hidden (flagged: %v)",
			res.ViolationWords,
		)
	default:
		return fmt.Sprintf(
			"Your review contains inappropriate language and was hidden (flagged: %v)",
			res.ViolationWords,
		)
	}
}

func (app *Application) getMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	reviewsList, err := app.services.Reviews.ListForMovie(r.Context(), movieID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewsList}, "")
}

func (app *Application) getMyReviews(w http.ResponseWriter, r *http.Request) {
	user := app.currentUser(r)
	reviewsList, err := app.services.Reviews.ListForUser(r.Context(), user.ID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviewsList}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var input createReviewInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	user := app.currentUser(r)
	review, res, err := app.services.Reviews.Create(r.Context(), movieID, user.ID, input.Comment, input.Rating)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, reviews.ErrReviewAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		case errors.Is(err, reviews.ErrEmptyComment), errors.Is(err, reviews.ErrInvalidRating):
			app.Http.BadRequest(w, r, err.Error())
		case errors.Is(err, moderation.ErrUnavailable):
			app.Http.ServiceUnavailable(w, r, "Reviews are temporarily unavailable. Please try again later.")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	msg := "Review successfully created"
	if res != nil && !res.IsApproved {
		msg = moderationNotice(res)
	}
	app.Http.Created(w, r, envelop{"review": review}, msg)
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var input updateReviewInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	if !app.authorizeReviewAccess(w, r, id) {
		return
	}
	review, res, err := app.services.Reviews.Update(r.Context(), id, input.Comment, input.Rating)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrReviewNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, reviews.ErrEmptyComment), errors.Is(err, reviews.ErrInvalidRating):
			app.Http.BadRequest(w, r, err.Error())
		case errors.Is(err, moderation.ErrUnavailable):
			app.Http.ServiceUnavailable(w, r, "Reviews are temporarily unavailable. Please try again later.")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	msg := "Review successfully updated"
	if res != nil && !res.IsApproved {
		msg = moderationNotice(res)
	}
	app.Http.Ok(w, r, envelop{"review": review}, msg)
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	if !app.authorizeReviewAccess(w, r, id) {
		return
	}
	if err := app.services.Reviews.Delete(r.Context(), id); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, nil, "Review successfully deleted")
}

// authorizeReviewAccess checks that the current user owns the review or is an
// admin. It writes the response itself on failure.
func (app *Application) authorizeReviewAccess(w http.ResponseWriter, r *http.Request, reviewID int64) bool {
	review, err := app.services.Reviews.Get(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return false
		}
		app.Http.ServerError(w, r, err, "")
		return false
	}
	user := app.currentUser(r)
	if review.UserID != user.ID && !user.IsAdmin() {
		app.Http.Forbidden(w, r, "You don't have permission to modify this review")
		return false
	}
	return true
}
