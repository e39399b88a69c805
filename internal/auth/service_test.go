package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
	"github.com/mannuking/Project-Radius/internal/users"
)

type fakeUserSource struct {
	byName map[string]users.User
	byID   map[uuid.UUID]users.User
}

func (f *fakeUserSource) GetByUsername(_ context.Context, username string) (users.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return users.User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserSource) GetByID(_ context.Context, id uuid.UUID) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, httpx.ErrNotFound
	}
	return u, nil
}

func seedUser(t *testing.T, source *fakeUserSource, username, password string, active bool) users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := users.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		Role:         policy.RoleCollector,
		IsActive:     active,
		PasswordHash: string(hash),
	}
	source.byName[username] = u
	source.byID[u.ID] = u
	return u
}

func newAuthService(source *fakeUserSource) *Service {
	return NewService(source, nil, slog.New(slog.DiscardHandler))
}

func TestAuthenticate(t *testing.T) {
	source := &fakeUserSource{byName: map[string]users.User{}, byID: map[uuid.UUID]users.User{}}
	seedUser(t, source, "jane", "correct-horse", true)
	svc := newAuthService(source)

	u, err := svc.Authenticate(context.Background(), "jane", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "jane", u.Username)

	_, err = svc.Authenticate(context.Background(), "jane", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, err, httpx.ErrUnauthorized, "unknown user fails identically")
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	source := &fakeUserSource{byName: map[string]users.User{}, byID: map[uuid.UUID]users.User{}}
	seedUser(t, source, "gone", "correct-horse", false)
	svc := newAuthService(source)

	_, err := svc.Authenticate(context.Background(), "gone", "correct-horse")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestResolveRejectsDeactivated(t *testing.T) {
	source := &fakeUserSource{byName: map[string]users.User{}, byID: map[uuid.UUID]users.User{}}
	active := seedUser(t, source, "jane", "pw-123456", true)
	inactive := seedUser(t, source, "gone", "pw-123456", false)
	svc := newAuthService(source)

	u, err := svc.Resolve(context.Background(), active.ID)
	require.NoError(t, err)
	require.Equal(t, active.ID, u.ID)

	_, err = svc.Resolve(context.Background(), inactive.ID)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}
