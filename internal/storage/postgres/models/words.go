package models

import (
	"context"
	"errors"
	"strings"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"
	"cinescope/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WordModel struct {
	DB *pgxpool.Pool
}

func (m *WordModel) ListAll(ctx context.Context) ([]models.BannedWord, error) {
	rows, _ := m.DB.Query(ctx, "SELECT * FROM banned_words ORDER BY id")
	words, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BannedWord])
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (m *WordModel) ListByCategory(ctx context.Context, category string) ([]models.BannedWord, error) {
	rows, _ := m.DB.Query(ctx, "SELECT * FROM banned_words WHERE category = $1 ORDER BY id", category)
	words, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BannedWord])
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (m *WordModel) Get(ctx context.Context, id int64) (*models.BannedWord, error) {
	rows, err := m.DB.Query(ctx, "SELECT * FROM banned_words WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	word, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.BannedWord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &word, nil
}

func (m *WordModel) Insert(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO banned_words (word, severity, category, is_active)
		VALUES ($1, $2, $3, $4) RETURNING *`,
		strings.ToLower(word.Word),
		word.Severity,
		word.Category,
		word.IsActive,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.BannedWord])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *WordModel) Update(ctx context.Context, word *models.BannedWord) (*models.BannedWord, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE banned_words SET word = $1, severity = $2, category = $3, is_active = $4, updated_at = now()
		WHERE id = $5 RETURNING *`,
		strings.ToLower(word.Word),
		word.Severity,
		word.Category,
		word.IsActive,
		word.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.BannedWord])
	if err != nil {
		var pgxErr *pgconn.PgError
		switch {
		case errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode:
			return nil, storage.ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *WordModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM banned_words WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
