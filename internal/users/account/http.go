// Copyright (c) 2026 Revora. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/revora-app/revora/internal/platform/middleware"
	requestutil "github.com/revora-app/revora/internal/platform/request"
	"github.com/revora-app/revora/internal/platform/respond"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/internal/platform/validate"
	"github.com/revora-app/revora/pkg/pagination"
)

// Field length limits for account payloads.
const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxNameLen     = 150
	maxBioLen      = 1000
)

// Handler implements the HTTP layer for account administration and the
// /users/me self-service surface.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the user domain's endpoints.
//
// The /me pair needs only authentication; everything else is admin-only.
// Chi matches the literal "me" segment before the {username} wildcard, so
// "me" can never be addressed as a username here.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self Service
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Get("/me", handler.getMe)
		router.Patch("/me", handler.updateMe)
	})

	// Administration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireRole(sec.RoleAdmin))
		router.Get("/", handler.listUsers)
		router.Post("/", handler.createUser)
		router.Get("/{username}", handler.getUser)
		router.Patch("/{username}", handler.updateUser)
		router.Delete("/{username}", handler.deleteUser)
	})

	return router
}

// # Administration Endpoints

/*
GET /api/v1/users.

Description: Lists accounts for the admin console, optionally filtered by
a username substring (?search=).

Response:
  - 200: []User with pagination meta
  - 401/403: Authentication or admin tier required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.ListUsers(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// createUserRequest defines the expected JSON payload for admin user creation.
type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

/*
POST /api/v1/users.

Description: Provisions a confirmed account with an admin-chosen role.

Response:
  - 201: User: The created account
  - 400: Validation failure (charset, lengths, duplicate identity)
  - 401/403: Authentication or admin tier required
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
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
		Email("email", input.Email).
		MaxLen("bio", input.Bio, maxBioLen).
		MaxLen("first_name", input.FirstName, maxNameLen).
		MaxLen("last_name", input.LastName, maxNameLen)
	if input.Role != "" {
		v.OneOf("role", input.Role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CreateUser(request.Context(), CreateUserInput{
		Username:  input.Username,
		Email:     input.Email,
		Role:      sec.UserRole(input.Role),
		Bio:       input.Bio,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/{username}.

Response:
  - 200: User
  - 404: Unknown username
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetUser(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateUserRequest defines the partial-update payload for admin edits.
type updateUserRequest struct {
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Bio       *string `json:"bio"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

/*
PATCH /api/v1/users/{username}.

Description: Applies partial updates to an account, including role changes.

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 404: Unknown username
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Required("email", *input.Email).
			MaxLen("email", *input.Email, maxEmailLen).
			Email("email", *input.Email)
	}
	if input.Role != nil {
		v.OneOf("role", *input.Role,
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}
	if input.Bio != nil {
		v.MaxLen("bio", *input.Bio, maxBioLen)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, maxNameLen)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, maxNameLen)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateUserInput{
		Email:     input.Email,
		Bio:       input.Bio,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		serviceInput.Role = &role
	}

	user, err := handler.accountService.UpdateUser(request.Context(), username, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{username}.

Response:
  - 204: Account removed
  - 404: Unknown username
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.accountService.DeleteUser(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: The caller's own account
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the partial-update payload for self edits.
// A role field in the body is simply ignored: /me never changes tiers.
type updateMeRequest struct {
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the caller's own account. The
role is preserved verbatim regardless of the payload.

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Email != nil {
		v.Required("email", *input.Email).
			MaxLen("email", *input.Email, maxEmailLen).
			Email("email", *input.Email)
	}
	if input.Bio != nil {
		v.MaxLen("bio", *input.Bio, maxBioLen)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, maxNameLen)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, maxNameLen)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), claims.UserID, UpdateProfileInput{
		Email:     input.Email,
		Bio:       input.Bio,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
