// Copyright (c) 2026 Revora. All rights reserved.

/*
Package auth implements the signup → confirmation code → token flow.

Accounts are created (or re-targeted, on idempotent resend) by POST
/auth/signup, which delivers a short-lived confirmation code out-of-band.
POST /auth/token exchanges a valid (username, code) pair for an RS256 JWT
and marks the account confirmed.

# Code Lifecycle

Codes are stateless HMAC constructions (see sec.CodeMaker): nothing is
stored server-side, and any change to the account record — including the
confirmation itself — invalidates all outstanding codes for it.
*/
package auth

import (
	"context"
	"time"
)

const (
	// CodeTTL is the lifetime of a confirmation code.
	CodeTTL = 24 * time.Hour

	// AccessTokenTTL is the lifetime of an issued JWT.
	AccessTokenTTL = 24 * time.Hour

	// ResendCooldown is the minimum interval between code deliveries for
	// the same account.
	ResendCooldown = 60 * time.Second
)

// # Contracts

// TokenIssuer is the subset of the JWT service the auth flow needs.
type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Throttle limits how often a confirmation code may be re-delivered.
type Throttle interface {
	// Reserve attempts to claim a delivery slot for the user. When the
	// cooldown is still active it returns ok=false and the remaining
	// wait in seconds.
	Reserve(context context.Context, userID string) (retryAfter int, ok bool, err error)
}
