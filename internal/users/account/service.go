// Copyright (c) 2026 Revora. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/constants"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/pkg/pagination"
	"github.com/revora-app/revora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for account administration and
// self-service profile management.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// # Administration

/*
ListUsers retrieves a page of accounts for the admin console.

Parameters:
  - context: context.Context
  - search: string (username substring filter, empty disables)
  - params: pagination.Params

Returns:
  - []*User: Page of accounts
  - int: Total matching count
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context, search string, params pagination.Params) ([]*User, int, error) {
	users, total, err := service.repository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateUserInput defines the admin-settable fields of a new account.
type CreateUserInput struct {
	Username  string
	Email     string
	Role      sec.UserRole
	Bio       string
	FirstName string
	LastName  string
}

/*
CreateUser provisions a new account on behalf of an administrator.

Description: Unlike self-signup, admin-created accounts skip the
confirmation-code exchange and are born confirmed. The role may be any
valid tier; an empty role defaults to the user tier.

Parameters:
  - context: context.Context
  - input: CreateUserInput

Returns:
  - *User: The created account
  - error: Validation, uniqueness, or storage failures
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*User, error) {
	if input.Role == "" {
		input.Role = sec.RoleUser
	}

	if err := service.checkIdentityFree(context, input.Username, input.Email, ""); err != nil {
		return nil, err
	}

	user := &User{
		ID:          uuidv7.New(),
		Username:    input.Username,
		Email:       input.Email,
		Role:        input.Role,
		Bio:         input.Bio,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		IsConfirmed: true,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetUser retrieves an account by username for the admin console.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: The account
  - error: Not found or storage failures
*/
func (service *Service) GetUser(context context.Context, username string) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

// UpdateUserInput defines the partial-update fields available to admins.
// Nil pointers leave the corresponding field untouched.
type UpdateUserInput struct {
	Email     *string
	Role      *sec.UserRole
	Bio       *string
	FirstName *string
	LastName  *string
}

/*
UpdateUser applies a partial set of changes to an account, including its
role tier.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateUserInput

Returns:
  - *User: The updated account
  - error: Validation, uniqueness, or storage failures
*/
func (service *Service) UpdateUser(context context.Context, username string, input UpdateUserInput) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.Email != nil && !strings.EqualFold(*input.Email, user.Email) {
		if err := service.checkIdentityFree(context, "", *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", user.ID))

	return user, nil
}

/*
DeleteUser removes an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) DeleteUser(context context.Context, username string) error {
	if err := service.repository.DeleteByUsername(context, username); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_deleted", slog.String("username", username))

	return nil
}

// # Self Service

/*
GetProfile retrieves the calling user's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: The account
  - error: Not found or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the fields a user may change on their own
// account. The role is deliberately absent: /users/me preserves it.
type UpdateProfileInput struct {
	Email     *string
	Bio       *string
	FirstName *string
	LastName  *string
}

/*
UpdateProfile applies a partial update to the calling user's own account.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: The updated account
  - error: Validation, uniqueness, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_profile_lookup_failed: %w", err)
	}

	if input.Email != nil && !strings.EqualFold(*input.Email, user.Email) {
		if err := service.checkIdentityFree(context, "", *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_profile_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Internal Helpers

// checkIdentityFree verifies that the username and/or email are not held by
// another account. Collisions surface as field-level validation errors; the
// unique indexes remain the authoritative guard under concurrency.
//
// Empty username or email skips the corresponding check. excludeID ignores
// matches against the account being updated.
func (service *Service) checkIdentityFree(context context.Context, username, email, excludeID string) error {
	if username != "" {
		if strings.EqualFold(username, constants.ReservedUsernameMe) {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "username",
				Message: "This username is reserved",
			})
		}

		existing, err := service.repository.FindByUsername(context, username)
		if err == nil && existing.ID != excludeID {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "username",
				Message: "This username is already taken",
			})
		}
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("account_service_username_check_failed: %w", err)
		}
	}

	if email != "" {
		existing, err := service.repository.FindByEmail(context, email)
		if err == nil && existing.ID != excludeID {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "email",
				Message: "This email is already registered",
			})
		}
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("account_service_email_check_failed: %w", err)
		}
	}

	return nil
}

// isNotFound reports whether err resolves to a 404-class application error.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
