// Copyright (c) 2026 Revora. All rights reserved.

/*
Package account owns the user identity entity and its administration.

It provides the admin-facing user management API (list, create, update,
delete by username) and the self-service profile endpoints (/users/me).
The auth package builds the signup and token flows on top of this
package's repository.

# Architecture

  - Entities: User.
  - Security: role changes are admin-only; the /me surface preserves the
    caller's role verbatim.
*/
package account

import (
	"context"
	"strconv"
	"time"

	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/pkg/pagination"
)

// # Domain Entities

// User is the master identity record for a Revora account.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	Bio       string       `json:"bio"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`

	// IsSuperuser grants admin-tier access regardless of Role. It is only
	// settable out-of-band (bootstrap tooling), never via the API.
	IsSuperuser bool `json:"-"`

	// IsConfirmed reports whether the account has completed the
	// confirmation-code exchange at least once.
	IsConfirmed bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// EffectiveRole resolves the access tier used for authorization decisions.
// The superuser flag promotes any account to admin.
func (user *User) EffectiveRole() sec.UserRole {
	if user.IsSuperuser {
		return sec.RoleAdmin
	}
	return user.Role
}

// CodeFingerprint condenses the account state that confirmation codes are
// bound to. Any change to these fields invalidates outstanding codes.
func (user *User) CodeFingerprint() string {
	return sec.StateFingerprint(
		user.Username,
		user.Email,
		string(user.Role),
		strconv.FormatBool(user.IsConfirmed),
	)
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
//
// Username and email lookups are case-insensitive: the storage layer
// indexes both columns on their lowercased form.
type Repository interface {
	/*
		Create persists a new user record.

		Parameters:
		  - context: context.Context
		  - user: *User (ID must be pre-assigned)

		Returns:
		  - error: Unique-constraint or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername retrieves a user record by username (case-insensitive).

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail retrieves a user record by email (case-insensitive).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List retrieves a page of users, optionally filtered by a username
		substring search.

		Parameters:
		  - context: context.Context
		  - search: string (empty disables filtering)
		  - params: pagination.Params

		Returns:
		  - []*User: Page of accounts ordered by username
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*User, int, error)

	/*
		Update rewrites the mutable fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (hydrated entity with changes)

		Returns:
		  - error: Unique-constraint or storage failures
	*/
	Update(context context.Context, user *User) error

	/*
		DeleteByUsername removes a user account (case-insensitive match).

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	DeleteByUsername(context context.Context, username string) error
}
