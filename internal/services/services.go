package services

import (
	"log/slog"

	"cinescope/proj/internal/config"
	"cinescope/proj/internal/mails"
	"cinescope/proj/internal/services/auth"
	"cinescope/proj/internal/services/moderation"
	"cinescope/proj/internal/services/movies"
	"cinescope/proj/internal/services/reviews"
	"cinescope/proj/internal/storage/postgres"
	storagemodels "cinescope/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth    *auth.AuthService
	Movies  *movies.MovieService
	Reviews *reviews.ReviewService
	Words   *moderation.WordService
	Engine  *moderation.Engine
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Services {
	m := storagemodels.New(storage)
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	cache := moderation.NewCache(log, m.Word, cfg.Moderation.CacheTTL)
	engine := moderation.NewEngine(log, cache)
	movieService := movies.New(log, m.Movie, cfg.Moderation.MovieCacheTTL)
	aggregator := reviews.NewAggregator(log, m.Review, movieService)
	return &Services{
		Auth: auth.New(
			log,
			m.User,
			mailer,
			taskExecutor,
			cfg.Auth.LockThreshold,
			cfg.AppSecret,
			cfg.Auth.AccessTokenTTL,
			cfg.Auth.RefreshTokenTTL,
		),
		Movies:  movieService,
		Reviews: reviews.New(log, m.Review, movieService, engine, aggregator),
		Words:   moderation.NewWordService(log, m.Word, cache),
		Engine:  engine,
	}
}
