package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/hash"
	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/tokens"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

const minPasswordLen = 6

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   tokens.Issuer
	Producer mykafka.Publisher
}

type TokenPair struct {
	Access  tokens.Signed
	Refresh tokens.Signed
	Role    string
}

func normalizeCredentials(req transport.CredentialsRequest) (string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return "", "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return email, req.Password, nil
}

func (s *AuthService) Register(ctx context.Context, req transport.CredentialsRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RoleUser)
}

// EnsureAdmin creates the admin account unless the email is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, req transport.CredentialsRequest) error {
	_, err := s.createUser(ctx, req, models.RoleAdmin)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

func (s *AuthService) createUser(ctx context.Context, req transport.CredentialsRequest, role string) (*models.User, error) {
	email, password, err := normalizeCredentials(req)
	if err != nil {
		return nil, err
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	h, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.Repo.CreateUser(ctx, &models.User{Email: email, PasswordHash: h, Role: role})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, user.ID.String(), "user_registered", map[string]string{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.CredentialsRequest) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, refreshRow(user, pair.Refresh)); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh trades a live refresh token for a fresh pair. The old token is
// revoked in the same transaction the new one is stored.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := s.Tokens.ParseRefresh(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	userID, err := tokens.UserID(claims.RegisteredClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh subject", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user gone", ErrUnauthorized)
		}
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if s.Tokens.Now != nil {
		now = s.Tokens.Now()
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshRow(user, pair.Refresh), now); err != nil {
		if errors.Is(err, repo.ErrRefreshRevoked) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token when it parses; an unreadable token is
// ignored.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := s.Tokens.ParseRefresh(raw)
	if err != nil {
		logging.FromContext(ctx).Debugw("logout_unparsable_refresh", "error", err)
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, claims.ID)
}

func (s *AuthService) issue(user *models.User) (*TokenPair, error) {
	access, err := s.Tokens.SignAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.SignRefresh(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, Role: user.Role}, nil
}

func refreshRow(user *models.User, t tokens.Signed) *models.RefreshToken {
	return &models.RefreshToken{UserID: user.ID, JTI: t.JTI, ExpiresAt: t.ExpiresAt.UTC()}
}
