package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", app.getMovies)
			r.Get("/{id}", app.getMovie)
			r.Get("/{id}/reviews", app.getMovieReviews)
			r.With(app.requireAuthenticatedUser).Post("/{id}/reviews", app.createReview)
			r.With(app.requireAdminUser).Post("/", app.createMovie)
			r.With(app.requireAdminUser).Patch("/{id}", app.updateMovie)
			r.With(app.requireAdminUser).Delete("/{id}", app.deleteMovie)
		})
		r.Route("/reviews", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Patch("/{id}", app.updateReview)
			r.With(app.requireAuthenticatedUser).Delete("/{id}", app.deleteReview)
		})
		r.Route("/moderation/words", func(r chi.Router) {
			r.Use(app.requireAdminUser)
			r.Get("/", app.getBannedWords)
			r.Post("/", app.createBannedWord)
			r.Patch("/{id}", app.updateBannedWord)
			r.Delete("/{id}", app.deleteBannedWord)
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/login", app.login)
			r.Post("/signup", app.signup)
			r.With(app.requireAuthenticatedUser).Get("/me/reviews", app.getMyReviews)
			r.With(app.requireAdminUser).Put("/{id}/unlock", app.unlockAccount)
		})
	})
	return router
}
