package main

import (
	"errors"
	"net/http"

	"cinescope/proj/internal/domain/fields"
	"cinescope/proj/internal/domain/filters"
	"cinescope/proj/internal/lib/validator"
	"cinescope/proj/internal/services/movies"
)

type createMovieInput struct {
	Title   string   `json:"title" validate:"required,max=500"`
	Year    int32    `json:"year" validate:"required,min=1888"`
	Runtime int32    `json:"runtime" validate:"required,gt=0"`
	Genres  []string `json:"genres" validate:"required,min=1,max=5,unique"`
}

type updateMovieInput struct {
	Title   *string  `json:"title" validate:"omitempty,max=500"`
	Year    *int32   `json:"year" validate:"omitempty,min=1888"`
	Runtime *int32   `json:"runtime" validate:"omitempty,gt=0"`
	Genres  []string `json:"genres" validate:"omitempty,min=1,max=5,unique"`
}

type listMoviesInput struct {
	Title    string   `schema:"title"`
	Genres   []string `schema:"genres"`
	Page     int      `schema:"page" validate:"omitempty,min=1,max=10000000"`
	PageSize int      `schema:"page_size" validate:"omitempty,min=1,max=100"`
	Sort     string   `schema:"sort" validate:"omitempty,sortbymoviefield"`
}

func (app *Application) getMovies(w http.ResponseWriter, r *http.Request) {
	input := listMoviesInput{Page: 1, PageSize: 20, Sort: "id"}
	if err := app.decoder.Decode(&input, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	f := filters.Filters{
		Page:         input.Page,
		PageSize:     input.PageSize,
		Sort:         input.Sort,
		SortSafelist: []string{"id", "title", "year", "rating", "runtime"},
	}
	moviesList, total, err := app.services.Movies.List(r.Context(), input.Title, input.Genres, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"movies": moviesList,
		"metadata": envelop{
			"total":     total,
			"page":      input.Page,
			"page_size": input.PageSize,
		},
	}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	movie, err := app.services.Movies.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var input createMovieInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	movie, err := app.services.Movies.Create(
		r.Context(), input.Title, input.Year, fields.MovieRuntime(input.Runtime), input.Genres,
	)
	if err != nil {
		if errors.Is(err, movies.ErrMovieAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie successfully created")
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var input updateMovieInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	movie, err := app.services.Movies.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	title, year, runtime, genres := movie.Title, movie.Year, movie.Runtime, movie.Genres
	if input.Title != nil {
		title = *input.Title
	}
	if input.Year != nil {
		year = *input.Year
	}
	if input.Runtime != nil {
		runtime = fields.MovieRuntime(*input.Runtime)
	}
	if input.Genres != nil {
		genres = input.Genres
	}
	movie, err = app.services.Movies.Update(r.Context(), id, title, year, runtime, genres)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, movies.ErrMovieAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie successfully updated")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	if err := app.services.Movies.Delete(r.Context(), id); err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, nil, "Movie successfully deleted")
}
