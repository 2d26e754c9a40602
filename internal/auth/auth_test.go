package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

var testConfig = config.Auth{
	Secret:     strings.Repeat("s", 32),
	Issuer:     "sales-analytics-test",
	AccessTTL:  5 * time.Minute,
	RefreshTTL: 24 * time.Hour,
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{users: map[string]model.User{}}
	svc, err := NewService(testConfig, repo, validator.MustNewDefaultValidator())
	require.NoError(t, err)
	return svc, repo
}

func TestNewService(t *testing.T) {
	cfg := testConfig
	cfg.Secret = "short"

	_, err := NewService(cfg, &fakeUserRepo{}, validator.MustNewDefaultValidator())
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	creds := CredentialsForm{Username: "ana", Password: "correct-horse"}

	user, err := svc.Register(ctx, creds)
	require.NoError(t, err)
	assert.NotEqual(t, creds.Password, user.PasswordHash)

	t.Run("Should reject a duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, creds)
		assert.ErrorIs(t, err, apperr.UsernameTakenErr)
	})

	t.Run("Should reject a short password", func(t *testing.T) {
		_, err := svc.Register(ctx, CredentialsForm{Username: "bob", Password: "123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), apperr.ValidationErrorCode)
	})

	t.Run("Should issue tokens for valid credentials", func(t *testing.T) {
		pair, err := svc.ObtainTokens(ctx, creds)
		require.NoError(t, err)

		p, err := svc.ParseAccessToken(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.UserID)
		assert.Equal(t, "ana", p.Username)

		_, err = svc.ParseAccessToken(pair.Refresh)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should reject bad credentials", func(t *testing.T) {
		_, err := svc.ObtainTokens(ctx, CredentialsForm{Username: "ana", Password: "wrong-password"})
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)

		_, err = svc.ObtainTokens(ctx, CredentialsForm{Username: "nobody", Password: "correct-horse"})
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)
	})

	t.Run("Should refresh only with a refresh token", func(t *testing.T) {
		pair, err := svc.ObtainTokens(ctx, creds)
		require.NoError(t, err)

		refreshed, err := svc.RefreshTokens(ctx, pair.Refresh)
		require.NoError(t, err)
		assert.Equal(t, pair.Refresh, refreshed.Refresh)
		_, err = svc.ParseAccessToken(refreshed.Access)
		assert.NoError(t, err)

		_, err = svc.RefreshTokens(ctx, pair.Access)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should expire access tokens", func(t *testing.T) {
		pair, err := svc.ObtainTokens(ctx, creds)
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
		defer func() { svc.now = time.Now }()

		_, err = svc.ParseAccessToken(pair.Access)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		other := testConfig
		other.Secret = strings.Repeat("x", 32)
		otherSvc, err := NewService(other, repo, validator.MustNewDefaultValidator())
		require.NoError(t, err)

		pair, err := otherSvc.ObtainTokens(ctx, creds)
		require.NoError(t, err)

		_, err = svc.ParseAccessToken(pair.Access)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should refuse inactive users", func(t *testing.T) {
		pair, err := svc.ObtainTokens(ctx, creds)
		require.NoError(t, err)

		repo.mu.Lock()
		u := repo.users["ana"]
		u.Active = false
		repo.users["ana"] = u
		repo.mu.Unlock()

		_, err = svc.ObtainTokens(ctx, creds)
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)
		_, err = svc.RefreshTokens(ctx, pair.Refresh)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Principal{Username: "ana"})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "ana", p.Username)
}
