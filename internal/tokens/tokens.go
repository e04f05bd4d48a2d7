// Package tokens signs and verifies the access/refresh JWT pair and computes
// the keyed digest under which refresh tokens are persisted.
package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Codec issues both token kinds with a single shared HS256 secret; the type
// claim is what keeps them apart, so Parse always checks it.
type Codec struct {
	Secret     []byte
	Pepper     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c *Codec) NewAccessToken(subject string, now time.Time) (string, error) {
	return c.sign(subject, TypeAccess, uuid.NewString(), now, now.Add(c.AccessTTL))
}

func (c *Codec) NewRefreshToken(subject string, now time.Time) (token, jti string, err error) {
	jti = uuid.NewString()
	token, err = c.sign(subject, TypeRefresh, jti, now, now.Add(c.RefreshTTL))
	return token, jti, err
}

func (c *Codec) sign(subject string, typ TokenType, jti string, now, exp time.Time) (string, error) {
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

// Parse verifies signature and expiry and rejects tokens of the wrong kind:
// an access token presented where a refresh token is expected (or the other
// way round) fails even when otherwise valid.
func (c *Codec) Parse(tokenStr string, want TokenType) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != want {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Digest is the storage-side transform of a raw refresh token: deterministic
// (no per-call salt) so the stored value is re-derivable from the presented
// token, keyed with a server-side pepper so a leaked table alone is useless.
func (c *Codec) Digest(token string) string {
	sum := sha256.Sum256(append(append([]byte{}, c.Pepper...), token...))
	return hex.EncodeToString(sum[:])
}
