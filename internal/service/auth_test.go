package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

func registerAndLogin(t *testing.T, env *testEnv, email, password string) *transport.TokenPair {
	t.Helper()

	_, err := env.Auth.Register(context.Background(), email, password)
	require.NoError(t, err)

	pair, err := env.Auth.Login(context.Background(), email, password)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Auth.Register(ctx, "a@a.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@a.com", user.Email)
	assert.NotEqual(t, uuid0, user.ID.String())

	// plaintext never reaches storage
	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "a@a.com").First(&stored).Error)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "secret123")

	_, err = env.Auth.Register(ctx, "a@a.com", "other-password")
	assert.ErrorIs(t, err, ErrConflict)
}

const uuid0 = "00000000-0000-0000-0000-000000000000"

func TestAuthService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "a@a.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Auth.Register(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_UniformUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "a@a.com", "secret123")
	require.NoError(t, err)

	_, errWrongPassword := env.Auth.Login(ctx, "a@a.com", "wrong")
	_, errUnknownEmail := env.Auth.Login(ctx, "nobody@a.com", "secret123")

	require.ErrorIs(t, errWrongPassword, ErrUnauthorized)
	require.ErrorIs(t, errUnknownEmail, ErrUnauthorized)
	// wrong password and unknown email must be indistinguishable
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestAuthService_Login_PersistsRefreshRecord(t *testing.T) {
	env := newTestEnv(t)

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	claims, err := env.Codec.Parse(pair.RefreshToken, "refresh")
	require.NoError(t, err)

	var record models.RefreshToken
	require.NoError(t, env.DB.Where("jti = ?", claims.ID).First(&record).Error)
	assert.Equal(t, env.Codec.Digest(pair.RefreshToken), record.TokenHash)
	assert.Nil(t, record.RevokedAt)
	assert.True(t, record.ExpiresAt.After(time.Now()))
}

func TestAuthService_Refresh_RotatesAndRejectsReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	next, err := env.Auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.NotEmpty(t, next.AccessToken)

	// the rotated-out token is single-use
	_, err = env.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// the replacement still works
	_, err = env.Auth.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	_, err := env.Auth.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Refresh_StoreExpiryWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	// embedded expiry is still far away; the store record says otherwise
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).
		Where("revoked_at IS NULL").
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err := env.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Refresh_RejectsForgedDigest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	// a stolen jti with the wrong secret: corrupt the stored digest so the
	// presented token no longer matches
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).
		Where("revoked_at IS NULL").
		Update("token_hash", "deadbeef").Error)

	_, err := env.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Logout_IdempotentAndBlocksRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	require.NoError(t, env.Auth.Logout(ctx, pair.RefreshToken))

	_, err := env.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// second logout with the same token is not an error
	require.NoError(t, env.Auth.Logout(ctx, pair.RefreshToken))
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	err := env.Auth.Logout(context.Background(), "not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Refresh_ConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv(t)

	pair := registerAndLogin(t, env, "a@a.com", "secret123")

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := env.Auth.Refresh(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success, fail := 0, 0
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrUnauthorized):
			fail++
		default:
			t.Fatalf("unexpected refresh error: %v", err)
		}
	}

	assert.Equal(t, 1, success, "exactly one concurrent refresh may win")
	assert.Equal(t, n-1, fail)
}
