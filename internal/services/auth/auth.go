package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UserStorage interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, username, email string, passwordHash []byte) (*models.User, error)
	UpdateLoginState(ctx context.Context, id int64, failedAttempts int, isLocked bool) error
}

type AuthService struct {
	log           *slog.Logger
	storage       UserStorage
	Mailer        MailProvider
	taskExecutor  TaskExecutor
	lockThreshold int
	appSecret     string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	userLocks     *lockRegistry
}

func New(
	log *slog.Logger,
	userStorage UserStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	lockThreshold int,
	appSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:           log,
		storage:       userStorage,
		Mailer:        mailer,
		taskExecutor:  taskExecutor,
		lockThreshold: lockThreshold,
		appSecret:     appSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		userLocks:     newLockRegistry(),
	}
}

func (a *AuthService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	user, err := a.storage.Insert(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

// Login runs the lockout state machine around credential verification. The
// locked check happens before the password is even compared, and the
// failed-attempt counter for one user is mutated under that user's mutex so
// concurrent failures cannot lose increments.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	user, err := a.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error(err.Error())
		return nil, err
	}
	mu := a.userLocks.forUser(user.ID)
	mu.Lock()
	defer mu.Unlock()
	// re-read under the lock so the counter reflects concurrent attempts
	user, err = a.storage.Get(ctx, user.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user.IsLocked {
		log.Warn("login attempt against locked account", "userID", user.ID)
		return nil, ErrAccountLocked
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, a.recordFailure(ctx, user)
	}
	if user.FailedLoginAttempts > 0 {
		if err := a.storage.UpdateLoginState(ctx, user.ID, 0, false); err != nil {
			// a missed reset only locks earlier than needed, never later
			log.Error("failed to reset login counter", "userID", user.ID, "errMsg", err.Error())
		}
	}
	tokens, err := a.issueTokens(user)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return tokens, nil
}

// recordFailure increments the per-user counter and locks the account at the
// threshold. If the increment cannot be persisted the login is still denied:
// a storage blip must not let an attacker slip past the lockout.
func (a *AuthService) recordFailure(ctx context.Context, user *models.User) error {
	const op = "auth.AuthService.recordFailure"
	log := a.log.With("op", op, "userID", user.ID)
	attempts := user.FailedLoginAttempts + 1
	locked := attempts >= a.lockThreshold
	if err := a.storage.UpdateLoginState(ctx, user.ID, attempts, locked); err != nil {
		log.Error("failed to record login failure", "errMsg", err.Error())
		return ErrInvalidCredentials
	}
	if locked {
		log.Warn("account locked after repeated failures", "attempts", attempts)
		a.taskExecutor.Add(func() {
			a.sendLockedEmail(user.Email, user.Username)
		})
		return ErrAccountLocked
	}
	log.Info("login failure recorded", "attempts", attempts)
	return ErrInvalidCredentials
}

// Unlock is the administrative reset: clears the counter and the lock flag.
func (a *AuthService) Unlock(ctx context.Context, userID int64) error {
	const op = "auth.AuthService.Unlock"
	log := a.log.With("op", op, "userID", userID)
	mu := a.userLocks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()
	if err := a.storage.UpdateLoginState(ctx, userID, 0, false); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("account unlocked")
	return nil
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	user, err := a.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		a.log.With("op", op, "id", id).Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (a *AuthService) sendLockedEmail(email, username string) {
	a.log.Info("sending account locked email", "email", email)
	err := a.Mailer.Send(
		email,
		"account_locked.html",
		map[string]interface{}{
			"username": username,
		})
	if err != nil {
		a.log.Error("Error sending account locked email", "errMsg", err.Error())
	}
}
