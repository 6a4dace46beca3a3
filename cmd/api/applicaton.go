package main

import (
	"log/slog"

	"cinescope/proj/internal/api/tasks"
	"cinescope/proj/internal/config"
	"cinescope/proj/internal/lib/decoder"
	"cinescope/proj/internal/lib/validator"
	"cinescope/proj/internal/services"
	"cinescope/proj/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
	bgTasks   *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	bgTasks := tasks.New(log, cfg.BgTasks.MaxWorkers, cfg.BgTasks.MaxQueueSize)
	bgTasks.Run()
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("sortbymoviefield", validator.ValidateSortByMovieField); err != nil {
		panic(err)
	}
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: v,
		decoder:   decoder.New(),
		services:  services.New(log, cfg, storage, bgTasks),
		bgTasks:   bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
