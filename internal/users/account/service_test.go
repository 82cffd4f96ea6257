// Copyright (c) 2026 Revora. All rights reserved.

package account_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/internal/users/account"
	"github.com/revora-app/revora/pkg/pagination"
	"github.com/revora-app/revora/pkg/pointer"
)

// fakeRepository is an in-memory account.Repository keyed by user ID.
type fakeRepository struct {
	users map[string]*account.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*account.User)}
}

func (f *fakeRepository) Create(_ context.Context, user *account.User) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("An account with this username or email already exists")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*account.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (f *fakeRepository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) List(_ context.Context, search string, _ pagination.Params) ([]*account.User, int, error) {
	out := make([]*account.User, 0, len(f.users))
	for _, user := range f.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			out = append(out, user)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepository) Update(_ context.Context, user *account.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) DeleteByUsername(_ context.Context, username string) error {
	for id, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			delete(f.users, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newTestService(repository *fakeRepository) *account.Service {
	return account.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_CreateUser provisions an admin-created account that is born
confirmed and defaults to the user tier.
*/
func TestService_CreateUser(t *testing.T) {
	service := newTestService(newFakeRepository())

	user, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.True(t, user.IsConfirmed)
}

/*
TestService_CreateUser_ExplicitRole preserves an admin-chosen role tier.
*/
func TestService_CreateUser_ExplicitRole(t *testing.T) {
	service := newTestService(newFakeRepository())

	user, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     sec.RoleModerator,
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

/*
TestService_CreateUser_Collisions surfaces taken identities as field-level
validation errors.
*/
func TestService_CreateUser_Collisions(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeRepository())

	_, err := service.CreateUser(ctx, account.CreateUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		username      string
		email         string
		expectedField string
	}{
		{"username_taken", "alice", "new@example.com", "username"},
		{"username_taken_case_insensitive", "ALICE", "new@example.com", "username"},
		{"email_taken", "bob", "alice@example.com", "email"},
		{"reserved_me", "me", "me@example.com", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateUser(ctx, account.CreateUserInput{Username: tt.username, Email: tt.email})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.expectedField, ae.Details[0].Field)
		})
	}
}

/*
TestService_UpdateUser applies partial updates, including the role tier.
*/
func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeRepository())

	_, err := service.CreateUser(ctx, account.CreateUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := service.UpdateUser(ctx, "alice", account.UpdateUserInput{
		Role: pointer.To(sec.RoleModerator),
		Bio:  pointer.To("Reviewer of long movies"),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleModerator, updated.Role)
	assert.Equal(t, "Reviewer of long movies", updated.Bio)
	// Untouched fields survive.
	assert.Equal(t, "alice@example.com", updated.Email)
}

/*
TestService_UpdateUser_EmailCollision rejects an email change onto another
account's address, but tolerates re-submitting one's own.
*/
func TestService_UpdateUser_EmailCollision(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeRepository())

	_, err := service.CreateUser(ctx, account.CreateUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = service.CreateUser(ctx, account.CreateUserInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = service.UpdateUser(ctx, "bob", account.UpdateUserInput{Email: pointer.To("alice@example.com")})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Same address, different case: no-op, not a collision.
	_, err = service.UpdateUser(ctx, "bob", account.UpdateUserInput{Email: pointer.To("BOB@example.com")})
	assert.NoError(t, err)
}

/*
TestService_UpdateProfile verifies self-service updates cannot change the
role tier.
*/
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeRepository())

	created, err := service.CreateUser(ctx, account.CreateUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := service.UpdateProfile(ctx, created.ID, account.UpdateProfileInput{FirstName: pointer.To("Alice")})
	require.NoError(t, err)

	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, sec.RoleUser, updated.Role)
}

/*
TestService_DeleteUser removes an account and propagates not-found.
*/
func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeRepository())

	_, err := service.CreateUser(ctx, account.CreateUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(ctx, "alice"))

	err = service.DeleteUser(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestUser_EffectiveRole verifies the superuser override.
*/
func TestUser_EffectiveRole(t *testing.T) {
	plain := &account.User{Role: sec.RoleUser}
	assert.Equal(t, sec.RoleUser, plain.EffectiveRole())

	super := &account.User{Role: sec.RoleUser, IsSuperuser: true}
	assert.Equal(t, sec.RoleAdmin, super.EffectiveRole())
}
