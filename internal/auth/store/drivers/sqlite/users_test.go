package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/gatehouselabs/gatehouse/internal/auth/domain"
	"github.com/gatehouselabs/gatehouse/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// A named in-memory database per test keeps pooled connections on the
	// same DB without leaking state across tests.
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	s, err := NewStore("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	u, err := s.Users().CreateUser(context.Background(), domain.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Permissions:  domain.DefaultSignupPermissions(),
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser_AssignsID(t *testing.T) {
	s := newTestStore(t)

	first := seedUser(t, s, "a@example.com")
	second := seedUser(t, s, "b@example.com")

	require.Positive(t, first.ID)
	require.Greater(t, second.ID, first.ID)
	require.False(t, first.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "dup@example.com")

	_, err := s.Users().CreateUser(context.Background(), domain.User{
		Email:        "dup@example.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUser_RoundTripsPermissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := seedUser(t, s, "perms@example.com")

	byID, err := s.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultSignupPermissions(), byID.Permissions)

	byEmail, err := s.Users().GetUserByEmail(ctx, "perms@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListAndCountUsers_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice@first.com")
	seedUser(t, s, "bob@second.com")
	seedUser(t, s, "carol@first.com")

	all, err := s.Users().ListUsers(ctx, store.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	firsts, err := s.Users().ListUsers(ctx, store.UserFilter{EmailContains: "first.com"})
	require.NoError(t, err)
	require.Len(t, firsts, 2)

	count, err := s.Users().CountUsers(ctx, store.UserFilter{EmailContains: "first.com"})
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	page, err := s.Users().ListUsers(ctx, store.UserFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "bob@second.com", page[0].Email)
}

func TestReplaceUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "replace@example.com")
	originalHash := u.PasswordHash

	u.Name = "Renamed"
	u.Permissions = []string{domain.PermissionUserManagement}
	require.NoError(t, s.Users().ReplaceUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, []string{domain.PermissionUserManagement}, got.Permissions)
	require.Equal(t, originalHash, got.PasswordHash, "replace must not touch the password hash")

	require.ErrorIs(t, s.Users().ReplaceUser(ctx, domain.User{ID: 9999}), store.ErrNotFound)
}

func TestUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "rehash@example.com")

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, 9999, "x"), store.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "delete@example.com")

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sentinel := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{
			Email:        "ghost@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound, "rollback must discard the insert")
}
