package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/hash"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/tokens"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Codec  *tokens.Codec
	Events *events.Producer
}

// Register creates the account without issuing tokens. Email matching is a
// case-sensitive exact match on the stored value.
func (s *AuthService) Register(ctx context.Context, email, password string) (*transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	if _, err := s.Repo.FindUserByEmail(ctx, email); err == nil {
		l.Warn("register_conflict", "status", 409)
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	if err := s.Events.Publish(ctx, user.ID.String(), map[string]any{"type": "user_registered", "email": user.Email}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("register_successful")
	return &transport.UserResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}, nil
}

// Login answers the same ErrUnauthorized for an unknown email and a wrong
// password. The refresh record is persisted before any token leaves here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	pair, record, err := s.mintPair(user.ID, time.Now().UTC())
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Repo.InsertRefreshToken(ctx, record); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, user.ID.String(), map[string]any{"type": "user_logged_in", "email": user.Email}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful")
	return pair, nil
}

// Refresh rotates the presented token: the stored record is revoked and a
// brand-new pair is minted under a fresh jti. Reuse of an already-rotated
// token fails like any revoked token, which is how replay shows up.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Codec.Parse(refreshToken, tokens.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	stored, err := s.Repo.FindRefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthorized)
		}
		return nil, err
	}
	if stored.RevokedAt != nil {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthorized)
	}
	// the stored expiry is authoritative even if the embedded one differs
	if !stored.ExpiresAt.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}
	if stored.TokenHash != s.Codec.Digest(refreshToken) {
		l.Warn("refresh_digest_mismatch", "status", 401)
		return nil, fmt.Errorf("%w: refresh token mismatch", ErrUnauthorized)
	}

	pair, record, err := s.mintPair(stored.UserID, time.Now().UTC())
	if err != nil {
		l.Error("refresh_error", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, record); err != nil {
		// a concurrent refresh won the conditional revoke
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: refresh token revoked", ErrUnauthorized)
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("refresh_successful")
	return pair, nil
}

// Logout revokes the live record behind the token. A missing or already
// revoked record is success, logging out twice is not an error. Unlike the
// jti-only revoke some stacks do, the presented token's digest must match.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := s.Codec.Parse(refreshToken, tokens.TypeRefresh)
	if err != nil {
		return fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	stored, err := s.Repo.FindRefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	if stored.RevokedAt != nil {
		return nil
	}
	if stored.TokenHash != s.Codec.Digest(refreshToken) {
		return fmt.Errorf("%w: refresh token mismatch", ErrUnauthorized)
	}

	if _, err := s.Repo.RevokeRefreshToken(ctx, claims.ID); err != nil {
		return err
	}
	l.Info("logout_successful")
	return nil
}

func (s *AuthService) mintPair(userID uuid.UUID, now time.Time) (*transport.TokenPair, *models.RefreshToken, error) {
	access, err := s.Codec.NewAccessToken(userID.String(), now)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := s.Codec.NewRefreshToken(userID.String(), now)
	if err != nil {
		return nil, nil, err
	}

	record := &models.RefreshToken{
		UserID:    userID,
		JTI:       jti,
		TokenHash: s.Codec.Digest(refresh),
		ExpiresAt: now.Add(s.Codec.RefreshTTL),
	}
	return &transport.TokenPair{AccessToken: access, RefreshToken: refresh}, record, nil
}
