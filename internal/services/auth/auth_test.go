package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cinescope/proj/internal/domain/models"
	"cinescope/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStorage struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	nextID   int64
	updErr   error
	updCalls int
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStorage) Get(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStorage) Insert(ctx context.Context, username, email string, passwordHash []byte) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, storage.ErrConflict
		}
	}
	u := &models.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		IsActive:     true,
	}
	f.nextID++
	f.users[u.ID] = u
	out := *u
	return &out, nil
}

func (f *fakeUserStorage) UpdateLoginState(ctx context.Context, id int64, failedAttempts int, isLocked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updCalls++
	if f.updErr != nil {
		return f.updErr
	}
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.FailedLoginAttempts = failedAttempts
	u.IsLocked = isLocked
	return nil
}

func (f *fakeUserStorage) updateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updCalls
}

type fakeMailer struct {
	mu    sync.Mutex
	sends []string
}

func (f *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, recipient+":"+tmplName)
	return nil
}

func (f *fakeMailer) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sends))
	copy(out, f.sends)
	return out
}

// syncExecutor runs dispatched tasks inline so tests can assert on their
// effects without waiting.
type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

const testPassword = "correct horse battery"

func newTestAuthService(t *testing.T, lockThreshold int) (*AuthService, *fakeUserStorage, *fakeMailer, *models.User) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	userStorage := newFakeUserStorage()
	mailer := &fakeMailer{}
	svc := New(log, userStorage, mailer, syncExecutor{}, lockThreshold, "test-secret", time.Hour, 24*time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := userStorage.Insert(context.Background(), "alice", "alice@example.com", hash)
	require.NoError(t, err)
	return svc, userStorage, mailer, user
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()
	t.Run("locks after threshold failures and sends email", func(t *testing.T) {
		svc, userStorage, mailer, user := newTestAuthService(t, 3)
		_, err := svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, ErrAccountLocked)
		stored, err := userStorage.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLocked)
		assert.Equal(t, 3, stored.FailedLoginAttempts)
		assert.Equal(t, []string{"alice@example.com:account_locked.html"}, mailer.sent())
	})
	t.Run("locked account rejects correct password without counting", func(t *testing.T) {
		svc, userStorage, mailer, user := newTestAuthService(t, 3)
		for i := 0; i < 3; i++ {
			svc.Login(ctx, user.Email, "wrong")
		}
		calls := userStorage.updateCalls()
		_, err := svc.Login(ctx, user.Email, testPassword)
		assert.ErrorIs(t, err, ErrAccountLocked)
		assert.Equal(t, calls, userStorage.updateCalls())
		assert.Len(t, mailer.sent(), 1, "locked email goes out once, at the lock transition")
	})
	t.Run("successful login resets the counter", func(t *testing.T) {
		svc, userStorage, _, user := newTestAuthService(t, 3)
		svc.Login(ctx, user.Email, "wrong")
		svc.Login(ctx, user.Email, "wrong")
		tokens, err := svc.Login(ctx, user.Email, testPassword)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		stored, err := userStorage.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.FailedLoginAttempts)
		assert.False(t, stored.IsLocked)
	})
	t.Run("persistence failure still denies the login", func(t *testing.T) {
		svc, userStorage, _, user := newTestAuthService(t, 3)
		userStorage.updErr = errors.New("db down")
		_, err := svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService(t, 3)
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("unlock restores login", func(t *testing.T) {
		svc, _, _, user := newTestAuthService(t, 3)
		for i := 0; i < 3; i++ {
			svc.Login(ctx, user.Email, "wrong")
		}
		require.NoError(t, svc.Unlock(ctx, user.ID))
		tokens, err := svc.Login(ctx, user.Email, testPassword)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})
	t.Run("concurrent failure storm loses no increments", func(t *testing.T) {
		const threshold = 20
		svc, userStorage, _, user := newTestAuthService(t, threshold)
		var wg sync.WaitGroup
		for i := 0; i < threshold; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				svc.Login(ctx, user.Email, "wrong")
			}()
		}
		wg.Wait()
		stored, err := userStorage.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, threshold, stored.FailedLoginAttempts)
		assert.True(t, stored.IsLocked)
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService(t, 3)
		user, err := svc.Signup(ctx, "bob@example.com", "bob", "hunter2hunter2")
		require.NoError(t, err)
		assert.NotEqual(t, "hunter2hunter2", string(user.PasswordHash))
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("hunter2hunter2")))
	})
	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _, user := newTestAuthService(t, 3)
		_, err := svc.Signup(ctx, user.Email, "alice2", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestTokens(t *testing.T) {
	svc, _, _, user := newTestAuthService(t, 3)
	tokens, err := svc.issueTokens(user)
	require.NoError(t, err)
	t.Run("round trip", func(t *testing.T) {
		uid, err := svc.VerifyToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, uid)
	})
	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("wrong secret", func(t *testing.T) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		other := New(log, newFakeUserStorage(), &fakeMailer{}, syncExecutor{}, 3, "other-secret", time.Hour, 24*time.Hour)
		_, err := other.VerifyToken(tokens.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLockRegistry(t *testing.T) {
	r := newLockRegistry()
	assert.Same(t, r.forUser(1), r.forUser(1))
	assert.NotSame(t, r.forUser(1), r.forUser(2))
}

func TestLockRegistryConcurrent(t *testing.T) {
	r := newLockRegistry()
	var counters [4]int
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := n % 4
			mu := r.forUser(int64(id))
			mu.Lock()
			counters[id]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	for id := 0; id < 4; id++ {
		assert.Equal(t, 8, counters[id])
	}
}
