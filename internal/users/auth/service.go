// Copyright (c) 2026 Revora. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/constants"
	"github.com/revora-app/revora/internal/platform/email"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/internal/users/account"
	"github.com/revora-app/revora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the signup and token-exchange flows.
type Service struct {
	accounts account.Repository
	codes    *sec.CodeMaker
	tokens   TokenIssuer
	mailer   email.Mailer
	throttle Throttle
	logger   *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(
	accounts account.Repository,
	codes *sec.CodeMaker,
	tokens TokenIssuer,
	mailer email.Mailer,
	throttle Throttle,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		codes:    codes,
		tokens:   tokens,
		mailer:   mailer,
		throttle: throttle,
		logger:   logger,
	}
}

// # Signup

/*
Signup registers a new account or re-delivers a confirmation code.

Description: The operation is idempotent on the exact (username, email)
pair, compared case-insensitively. A matching pair re-targets the existing
account and resends its code; a partial collision — the username or the
email held by a different account — is rejected with a field-level error.

Parameters:
  - context: context.Context
  - username: string (pre-validated charset and length)
  - emailAddr: string (pre-validated format)

Returns:
  - error: Validation, throttle, or storage failures
*/
func (service *Service) Signup(context context.Context, username, emailAddr string) error {
	if strings.EqualFold(username, constants.ReservedUsernameMe) {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "username",
			Message: "This username is reserved",
		})
	}

	// ── 1. Identity Resolution ────────────────────────────────────────────
	byUsername, err := service.accounts.FindByUsername(context, username)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("auth_service_signup_username_lookup_failed: %w", err)
	}

	byEmail, err := service.accounts.FindByEmail(context, emailAddr)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("auth_service_signup_email_lookup_failed: %w", err)
	}

	// ── 2. Resend vs. Collision ───────────────────────────────────────────
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		// Exact pair match: idempotent resend to the same account.
		return service.deliverCode(context, byUsername)

	case byUsername != nil:
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "username",
			Message: "This username is already taken",
		})

	case byEmail != nil:
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "email",
			Message: "This email is already registered",
		})
	}

	// ── 3. Account Creation ───────────────────────────────────────────────
	user := &account.User{
		ID:       uuidv7.New(),
		Username: username,
		Email:    emailAddr,
		Role:     sec.RoleUser,
	}

	if err := service.accounts.Create(context, user); err != nil {
		return fmt.Errorf("auth_service_signup_create_failed: %w", err)
	}

	service.logger.Info("user_signed_up", slog.String("user_id", user.ID))

	// ── 4. Code Delivery ──────────────────────────────────────────────────
	return service.deliverCode(context, user)
}

// deliverCode generates a fresh confirmation code for the user and sends
// it out-of-band, honoring the resend cooldown.
//
// Delivery is best-effort: a mailer failure is logged and swallowed, since
// the user can always request another code.
func (service *Service) deliverCode(context context.Context, user *account.User) error {
	retryAfter, ok, err := service.throttle.Reserve(context, user.ID)
	if err != nil {
		return fmt.Errorf("auth_service_throttle_failed: %w", err)
	}
	if !ok {
		return apperr.RateLimited(retryAfter)
	}

	code := service.codes.Make(user.ID, user.CodeFingerprint())

	body := fmt.Sprintf(
		"Hello %s,\n\nYour Revora confirmation code is:\n\n%s\n\nExchange it at POST /api/v1/auth/token to receive an access token.",
		user.Username, code)

	if err := service.mailer.Send(context, user.Email, "Your Revora confirmation code", body); err != nil {
		service.logger.Error("confirmation_code_delivery_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return nil
}

// # Token Exchange

/*
IssueToken exchanges a (username, confirmation code) pair for a JWT.

Description: An unknown username is a 404; a bad or expired code is a 400
with a field-level error. On success the account is marked confirmed —
which, by changing the state fingerprint, invalidates the used code.

Parameters:
  - context: context.Context
  - username: string
  - code: string

Returns:
  - string: Signed RS256 access token
  - error: Not found, validation, or storage failures
*/
func (service *Service) IssueToken(context context.Context, username, code string) (string, error) {
	user, err := service.accounts.FindByUsername(context, username)
	if err != nil {
		if isNotFound(err) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	if !service.codes.Check(user.ID, user.CodeFingerprint(), code) {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "confirmation_code",
			Message: "Invalid or expired confirmation code",
		})
	}

	if !user.IsConfirmed {
		user.IsConfirmed = true
		if err := service.accounts.Update(context, user); err != nil {
			return "", fmt.Errorf("auth_service_confirm_failed: %w", err)
		}
	}

	token, err := service.tokens.GenerateAccessToken(
		user.ID, user.Username, string(user.EffectiveRole()), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.Info("access_token_issued", slog.String("user_id", user.ID))

	return token, nil
}

// isNotFound reports whether err resolves to a 404-class application error.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
