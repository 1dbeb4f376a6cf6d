package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/tokens"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

func newAuthService(t *testing.T) (*AuthService, *mykafka.Recorder) {
	rec := &mykafka.Recorder{}
	return &AuthService{
		Repo:     newRepo(t),
		Tokens:   tokens.Issuer{AccessSecret: []byte("access-secret"), RefreshSecret: []byte("refresh-secret")},
		Producer: rec,
	}, rec
}

func TestRegister(t *testing.T) {
	svc, rec := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, transport.CredentialsRequest{Email: " Buyer@QQ.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@qq.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, mykafka.TopicUserEvents, rec.Events[0].Topic)

	_, err = svc.Register(ctx, transport.CredentialsRequest{Email: "buyer@qq.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	tests := []struct {
		name string
		req  transport.CredentialsRequest
	}{
		{"bad email", transport.CredentialsRequest{Email: "nope", Password: "secret1"}},
		{"short password", transport.CredentialsRequest{Email: "x@qq.com", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	req := transport.CredentialsRequest{Email: "admin@qq.com", Password: "admin123"}

	require.NoError(t, svc.EnsureAdmin(ctx, req))
	require.NoError(t, svc.EnsureAdmin(ctx, req))

	u, err := svc.Repo.GetUserByEmail(ctx, "admin@qq.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestLoginRefreshLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	creds := transport.CredentialsRequest{Email: "admin@qq.com", Password: "admin123"}
	require.NoError(t, svc.EnsureAdmin(ctx, creds))

	_, err := svc.Login(ctx, transport.CredentialsRequest{Email: "admin@qq.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, transport.CredentialsRequest{Email: "ghost@qq.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	pair, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, pair.Role)
	assert.True(t, pair.Access.ExpiresAt.After(time.Now()))

	claims, err := svc.Tokens.ParseAccess(pair.Access.Raw)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	next, err := svc.Refresh(ctx, pair.Refresh.Raw)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh.JTI, next.Refresh.JTI)

	_, err = svc.Refresh(ctx, pair.Refresh.Raw)
	assert.ErrorIs(t, err, ErrUnauthorized, "a rotated token cannot be replayed")

	_, err = svc.Refresh(ctx, pair.Access.Raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, next.Refresh.Raw))
	_, err = svc.Refresh(ctx, next.Refresh.Raw)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.NoError(t, svc.Logout(ctx, "garbage"))
	assert.NoError(t, svc.Logout(ctx, ""))
}
