package moderation

import "errors"

var (
	// ErrUnavailable is returned when no banned-word snapshot has ever been
	// built and storage cannot be reached: content must not be approved
	// unmoderated, so the caller rejects the submission.
	ErrUnavailable       = errors.New("moderation unavailable: no banned word snapshot")
	ErrWordNotFound      = errors.New("banned word not found")
	ErrWordAlreadyExists = errors.New("banned word already exists")
	ErrEmptyWord         = errors.New("banned word text must not be empty")
)
