package models

import (
	"cinescope/proj/internal/domain/fields"
	"time"
)

type Movie struct {
	ID          int64               `json:"id" db:"id"`                           // Unique integer ID for the movie
	Title       string              `json:"title" db:"title"`                     // Movie title
	Year        int32               `json:"year,omitempty" db:"year"`             // Movie release year
	Runtime     fields.MovieRuntime `json:"runtime,omitempty" db:"runtime"`       // Movie runtime (in minutes)
	Genres      []string            `json:"genres,omitempty" db:"genres"`         // Movie genres (i.e. Comedy, drama, scifi)
	Rating      float64             `json:"rating" db:"rating"`                   // Mean rating across approved reviews, 0 when there are none
	ReviewCount int                 `json:"review_count" db:"review_count"`       // Number of approved reviews
	Version     uint                `json:"version" db:"version"`                 // The version number starts at 1 and will be incremented each // time the movie information is updated
	CreatedAt   time.Time           `json:"-" db:"created_at"`                    // Timestamp for when the movie is added to our database
}

type User struct {
	ID                  int64     `json:"id" db:"id"`
	Username            string    `json:"username" db:"username"`
	PasswordHash        []byte    `json:"-" db:"password_hash"`
	Email               string    `json:"email" db:"email"`
	Role                string    `json:"role" db:"role"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	FailedLoginAttempts int       `json:"-" db:"failed_login_attempts"`
	IsLocked            bool      `json:"is_locked" db:"is_locked"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"-" db:"updated_at"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type Review struct {
	ID           int64     `json:"id" db:"id"`
	MovieID      int64     `json:"movie_id" db:"movie_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Comment      string    `json:"comment" db:"comment"`
	Rating       float64   `json:"rating" db:"rating"`
	IsApproved   bool      `json:"is_approved" db:"is_approved"`
	FlaggedWords []string  `json:"flagged_words,omitempty" db:"flagged_words"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// BannedWord is a moderation dictionary entry. Word is stored lowercase and
// is the cache key; disabled entries stay in storage but never match.
type BannedWord struct {
	ID        int64     `json:"id" db:"id"`
	Word      string    `json:"word" db:"word"`
	Severity  int       `json:"severity" db:"severity"`
	Category  string    `json:"category" db:"category"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
