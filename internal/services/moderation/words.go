package moderation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"
)

type WordStorage interface {
	WordLister
	ListByCategory(ctx context.Context, category string) ([]models.BannedWord, error)
	Get(ctx context.Context, id int64) (*models.BannedWord, error)
	Insert(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error)
	Update(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error)
	Delete(ctx context.Context, id int64) error
}

// WordService is the administrative side of moderation: banned-word CRUD that
// keeps the cache in sync through its patch hooks.
type WordService struct {
	log     *slog.Logger
	storage WordStorage
	cache   *Cache
}

func NewWordService(log *slog.Logger, storage WordStorage, cache *Cache) *WordService {
	return &WordService{
		log:     log,
		storage: storage,
		cache:   cache,
	}
}

func (s *WordService) Add(ctx context.Context, word, category string, severity int, isActive bool) (*models.BannedWord, error) {
	const op = "moderation.WordService.Add"
	log := s.log.With("op", op, "word", word, "category", category, "severity", severity)
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, ErrEmptyWord
	}
	inserted, err := s.storage.Insert(ctx, &models.BannedWord{
		Word:     word,
		Severity: severity,
		Category: category,
		IsActive: isActive,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("banned word already exists")
			return nil, ErrWordAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	s.cache.OnWordAdded(*inserted)
	return inserted, nil
}

func (s *WordService) Get(ctx context.Context, id int64) (*models.BannedWord, error) {
	const op = "moderation.WordService.Get"
	word, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		s.log.With("op", op, "id", id).Error(err.Error())
		return nil, err
	}
	return word, nil
}

func (s *WordService) Update(ctx context.Context, id int64, word, category string, severity int, isActive bool) (*models.BannedWord, error) {
	const op = "moderation.WordService.Update"
	log := s.log.With("op", op, "id", id)
	existing, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("banned word not found")
			return nil, ErrWordNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	// Full replacement: callers resolve partial input against the stored
	// entry (see updateBannedWord) before calling here.
	oldWord := existing.Word
	existing.Word = strings.ToLower(strings.TrimSpace(word))
	if existing.Word == "" {
		return nil, ErrEmptyWord
	}
	existing.Category = category
	existing.Severity = severity
	existing.IsActive = isActive
	updated, err := s.storage.Update(ctx, existing)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("banned word not found")
			return nil, ErrWordNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("banned word already exists")
			return nil, ErrWordAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	s.cache.OnWordUpdated(oldWord, *updated)
	return updated, nil
}

func (s *WordService) Remove(ctx context.Context, id int64) error {
	const op = "moderation.WordService.Remove"
	log := s.log.With("op", op, "id", id)
	existing, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("banned word not found")
			return ErrWordNotFound
		}
		log.Error(err.Error())
		return err
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrWordNotFound
		}
		log.Error(err.Error())
		return err
	}
	s.cache.OnWordRemoved(existing.Word)
	return nil
}

func (s *WordService) List(ctx context.Context, category string) ([]models.BannedWord, error) {
	const op = "moderation.WordService.List"
	log := s.log.With("op", op, "category", category)
	var (
		words []models.BannedWord
		err   error
	)
	if category == "" {
		words, err = s.storage.ListAll(ctx)
	} else {
		words, err = s.storage.ListByCategory(ctx, category)
	}
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return words, nil
}
