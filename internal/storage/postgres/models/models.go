package models

import "cinescope/proj/internal/storage/postgres"

type Models struct {
	Movie  *MovieModel
	Review *ReviewModel
	Word   *WordModel
	User   *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movie:  &MovieModel{db.Conn},
		Review: &ReviewModel{db.Conn},
		Word:   &WordModel{db.Conn},
		User:   &UserModel{db.Conn},
	}
}
