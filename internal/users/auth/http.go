// Copyright (c) 2026 Revora. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/revora-app/revora/internal/platform/request"
	"github.com/revora-app/revora/internal/platform/respond"
	"github.com/revora-app/revora/internal/platform/validate"
)

// Field length limits for auth payloads.
const (
	maxUsernameLen = 150
	maxEmailLen    = 254
)

// Handler implements the HTTP layer for the auth flow.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the auth endpoints. Both are public.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// signupRequest defines the expected JSON payload for POST /auth/signup.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
POST /api/v1/auth/signup.

Description: Registers a new account — or idempotently resends the
confirmation code when the exact (username, email) pair already exists —
and delivers the code out-of-band.

Response:
  - 200: Echo of the accepted identity pair
  - 400: Validation failure (charset, reserved name, partial collision)
  - 429: Resend cooldown still active
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("username", input.Username).
		MaxLen("username", input.Username, maxUsernameLen).
		Username("username", input.Username).
		Required("email", input.Email).
		MaxLen("email", input.Email, maxEmailLen).
		Email("email", input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Signup(request.Context(), input.Username, input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The original pair is echoed so clients can confirm what was registered.
	respond.OK(writer, signupRequest{Username: input.Username, Email: input.Email})
}

// tokenRequest defines the expected JSON payload for POST /auth/token.
type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// tokenResponse carries the issued access token.
type tokenResponse struct {
	Token string `json:"token"`
}

/*
POST /api/v1/auth/token.

Description: Exchanges a (username, confirmation code) pair for an RS256
access token and marks the account confirmed.

Response:
  - 200: {token}
  - 400: Missing fields or invalid/expired code
  - 404: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("username", input.Username).
		Required("confirmation_code", input.ConfirmationCode)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.IssueToken(request.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{Token: token})
}
