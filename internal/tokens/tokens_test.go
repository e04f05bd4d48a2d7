package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return &Codec{
		Secret:     []byte("test-jwt-secret"),
		Pepper:     []byte("test-pepper"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}
}

func TestCodec_AccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	userID := uuid.NewString()
	now := time.Now().UTC()

	token, err := c.NewAccessToken(userID, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := c.Parse(token, TypeAccess)
	require.NoError(t, err)

	assert.Equal(t, TypeAccess, claims.Type)
	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(c.AccessTTL), claims.ExpiresAt.Time, time.Second)
}

func TestCodec_RefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	userID := uuid.NewString()

	token, jti, err := c.NewRefreshToken(userID, time.Now().UTC())
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := c.Parse(token, TypeRefresh)
	require.NoError(t, err)

	assert.Equal(t, TypeRefresh, claims.Type)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, jti, claims.ID)
}

func TestCodec_Parse_RejectsWrongType(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	now := time.Now().UTC()

	access, err := c.NewAccessToken(uuid.NewString(), now)
	require.NoError(t, err)
	refresh, _, err := c.NewRefreshToken(uuid.NewString(), now)
	require.NoError(t, err)

	_, err = c.Parse(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.Parse(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Parse_RejectsGarbageAndWrongSecret(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	_, err := c.Parse("not-a-jwt", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestCodec()
	other.Secret = []byte("a-different-secret")
	token, err := other.NewAccessToken(uuid.NewString(), time.Now().UTC())
	require.NoError(t, err)

	_, err = c.Parse(token, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Parse_RejectsExpired(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	c.AccessTTL = -time.Minute

	token, err := c.NewAccessToken(uuid.NewString(), time.Now().UTC())
	require.NoError(t, err)

	_, err = c.Parse(token, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Digest_DeterministicAndPeppered(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	d1 := c.Digest("some-refresh-token")
	d2 := c.Digest("some-refresh-token")
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotEqual(t, d1, c.Digest("another-refresh-token"))

	other := newTestCodec()
	other.Pepper = []byte("other-pepper")
	assert.NotEqual(t, d1, other.Digest("some-refresh-token"))
}
