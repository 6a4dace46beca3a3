package main

import (
	"errors"
	"net/http"

	"cinescope/proj/internal/lib/validator"
	"cinescope/proj/internal/services/moderation"
)

type createBannedWordInput struct {
	Word     string `json:"word" validate:"required,max=100"`
	Severity int    `json:"severity" validate:"required,min=1,max=10"`
	Category string `json:"category" validate:"required,max=100"`
	IsActive *bool  `json:"is_active"`
}

type updateBannedWordInput struct {
	Word     *string `json:"word" validate:"omitempty,max=100"`
	Severity *int    `json:"severity" validate:"omitempty,min=1,max=10"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

type listBannedWordsInput struct {
	Category string `schema:"category" validate:"omitempty,max=100"`
}

func (app *Application) getBannedWords(w http.ResponseWriter, r *http.Request) {
	var input listBannedWordsInput
	if err := app.decoder.Decode(&input, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	words, err := app.services.Words.List(r.Context(), input.Category)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"banned_words": words}, "")
}

func (app *Application) createBannedWord(w http.ResponseWriter, r *http.Request) {
	var input createBannedWordInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	word, err := app.services.Words.Add(r.Context(), input.Word, input.Category, input.Severity, isActive)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrWordAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		case errors.Is(err, moderation.ErrEmptyWord):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"banned_word": word}, "Banned word successfully created")
}

func (app *Application) updateBannedWord(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var input updateBannedWordInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validator.ValidateStruct(app.validator, input); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	existing, err := app.services.Words.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, moderation.ErrWordNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	word, severity, category, isActive := existing.Word, existing.Severity, existing.Category, existing.IsActive
	if input.Word != nil {
		word = *input.Word
	}
	if input.Severity != nil {
		severity = *input.Severity
	}
	if input.Category != nil {
		category = *input.Category
	}
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	updated, err := app.services.Words.Update(r.Context(), id, word, category, severity, isActive)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrWordNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, moderation.ErrWordAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		case errors.Is(err, moderation.ErrEmptyWord):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"banned_word": updated}, "Banned word successfully updated")
}

func (app *Application) deleteBannedWord(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	if err := app.services.Words.Remove(r.Context(), id); err != nil {
		if errors.Is(err, moderation.ErrWordNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, nil, "Banned word successfully deleted")
}
