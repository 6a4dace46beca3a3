package models

import (
	"context"
	"errors"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"
	"cinescope/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

func (m *ReviewModel) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO reviews (movie_id, user_id, comment, rating, is_approved, flagged_words)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING *`,
		review.MovieID,
		review.UserID,
		review.Comment,
		review.Rating,
		review.IsApproved,
		review.FlaggedWords,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *ReviewModel) Get(ctx context.Context, id int64) (*models.Review, error) {
	rows, err := m.DB.Query(ctx, "SELECT * FROM reviews WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) GetForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	rows, _ := m.DB.Query(ctx, "SELECT * FROM reviews WHERE movie_id = $1 ORDER BY id", movieID)
	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (m *ReviewModel) GetForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	rows, _ := m.DB.Query(ctx, "SELECT * FROM reviews WHERE user_id = $1 ORDER BY id", userID)
	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE reviews SET comment = $1, rating = $2, is_approved = $3, flagged_words = $4, updated_at = now()
		WHERE id = $5 RETURNING *`,
		review.Comment,
		review.Rating,
		review.IsApproved,
		review.FlaggedWords,
		review.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *ReviewModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
