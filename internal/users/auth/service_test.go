// Copyright (c) 2026 Revora. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/internal/users/account"
	"github.com/revora-app/revora/internal/users/auth"
	"github.com/revora-app/revora/pkg/pagination"
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

func (f *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*account.User, int, error) {
	out := make([]*account.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user)
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

// fakeIssuer returns a predictable token embedding the claims.
type fakeIssuer struct{}

func (fakeIssuer) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	return fmt.Sprintf("token|%s|%s|%s", userID, username, role), nil
}

// fakeThrottle counts reservations and can simulate an active cooldown.
type fakeThrottle struct {
	blocked      bool
	reservations int
}

func (f *fakeThrottle) Reserve(_ context.Context, _ string) (int, bool, error) {
	if f.blocked {
		return 42, false, nil
	}
	f.reservations++
	return 0, true, nil
}

// fakeMailer records outgoing messages and can simulate delivery failure.
type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, to, _ string, _ string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fixture struct {
	service    *auth.Service
	repository *fakeRepository
	codes      *sec.CodeMaker
	throttle   *fakeThrottle
	mailer     *fakeMailer
}

func newFixture() *fixture {
	repository := newFakeRepository()
	codes := sec.NewCodeMaker("test-secret", time.Hour)
	throttle := &fakeThrottle{}
	mailer := &fakeMailer{}

	service := auth.NewService(
		repository, codes, fakeIssuer{}, mailer, throttle,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &fixture{
		service:    service,
		repository: repository,
		codes:      codes,
		throttle:   throttle,
		mailer:     mailer,
	}
}

// mustUser fetches the single account registered under username.
func (f *fixture) mustUser(t *testing.T, username string) *account.User {
	t.Helper()
	user, err := f.repository.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return user
}

/*
TestService_Signup registers a fresh account in the user tier and delivers
a confirmation code.
*/
func TestService_Signup(t *testing.T) {
	f := newFixture()

	err := f.service.Signup(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)

	user := f.mustUser(t, "alice")
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsConfirmed)
	assert.Equal(t, []string{"alice@example.com"}, f.mailer.sent)
}

/*
TestService_Signup_ReservedUsername rejects the path-reserved username.
*/
func TestService_Signup_ReservedUsername(t *testing.T) {
	f := newFixture()

	for _, username := range []string{"me", "ME", "Me"} {
		err := f.service.Signup(context.Background(), username, "me@example.com")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, "username", ae.Details[0].Field)
	}
}

/*
TestService_Signup_IdempotentResend re-targets the existing account when
the exact pair is submitted again, without creating a duplicate.
*/
func TestService_Signup_IdempotentResend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))
	// Different case, same identity pair.
	require.NoError(t, f.service.Signup(ctx, "ALICE", "Alice@Example.com"))

	assert.Len(t, f.repository.users, 1)
	assert.Len(t, f.mailer.sent, 2)
}

/*
TestService_Signup_PartialCollision rejects a pair where the username or
email belongs to a different account.
*/
func TestService_Signup_PartialCollision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))
	require.NoError(t, f.service.Signup(ctx, "bob", "bob@example.com"))

	tests := []struct {
		name          string
		username      string
		email         string
		expectedField string
	}{
		{"username_taken", "alice", "other@example.com", "username"},
		{"email_taken", "carol", "alice@example.com", "email"},
		{"crossed_pair", "alice", "bob@example.com", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Signup(ctx, tt.username, tt.email)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.expectedField, ae.Details[0].Field)
		})
	}

	assert.Len(t, f.repository.users, 2)
}

/*
TestService_Signup_Throttled surfaces the resend cooldown as a 429.
*/
func TestService_Signup_Throttled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))

	f.throttle.blocked = true
	err := f.service.Signup(ctx, "alice", "alice@example.com")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "RATE_LIMITED", ae.Code)
	assert.Len(t, f.mailer.sent, 1)
}

/*
TestService_Signup_MailerFailure confirms delivery errors are swallowed:
the account exists and a fresh code can still be exchanged later.
*/
func TestService_Signup_MailerFailure(t *testing.T) {
	f := newFixture()
	f.mailer.fail = true

	err := f.service.Signup(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)

	f.mustUser(t, "alice")
}

/*
TestService_IssueToken exchanges a valid code for a token and marks the
account confirmed.
*/
func TestService_IssueToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))
	user := f.mustUser(t, "alice")
	code := f.codes.Make(user.ID, user.CodeFingerprint())

	token, err := f.service.IssueToken(ctx, "alice", code)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("token|%s|alice|user", user.ID), token)

	assert.True(t, f.mustUser(t, "alice").IsConfirmed)
}

/*
TestService_IssueToken_UnknownUser yields a 404 for an unknown username.
*/
func TestService_IssueToken_UnknownUser(t *testing.T) {
	f := newFixture()

	_, err := f.service.IssueToken(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_IssueToken_BadCode yields a field-level 400 for a wrong code.
*/
func TestService_IssueToken_BadCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))

	_, err := f.service.IssueToken(ctx, "alice", "1234-bogus")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "confirmation_code", ae.Details[0].Field)
}

/*
TestService_IssueToken_CodeSingleUse confirms that confirming the account
invalidates the code that was used.
*/
func TestService_IssueToken_CodeSingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "alice", "alice@example.com"))
	user := f.mustUser(t, "alice")
	code := f.codes.Make(user.ID, user.CodeFingerprint())

	_, err := f.service.IssueToken(ctx, "alice", code)
	require.NoError(t, err)

	// The confirmation changed the account state the code was bound to.
	_, err = f.service.IssueToken(ctx, "alice", code)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_IssueToken_SuperuserRole resolves superusers to the admin tier
at issuance time.
*/
func TestService_IssueToken_SuperuserRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Signup(ctx, "root", "root@example.com"))
	user := f.mustUser(t, "root")
	user.IsSuperuser = true

	code := f.codes.Make(user.ID, user.CodeFingerprint())
	token, err := f.service.IssueToken(ctx, "root", code)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(token, "|admin"))
}
