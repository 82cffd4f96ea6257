// Copyright (c) 2026 Revora. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/revora-app/revora/internal/platform/middleware"
	requestutil "github.com/revora-app/revora/internal/platform/request"
	"github.com/revora-app/revora/internal/platform/respond"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/internal/platform/validate"
	"github.com/revora-app/revora/pkg/pagination"
	"github.com/revora-app/revora/pkg/query"
)

// Field length limits for catalog payloads.
const (
	maxCatalogNameLen = 256
	maxSlugLen        = 50
)

// Handler implements the HTTP layer for the catalog.
type Handler struct {
	catalogService *Service

	// reviewRoutes is the review domain's subrouter, mounted under
	// /titles/{titleID}/reviews. Injected as a plain handler so the
	// catalog package never imports the review package.
	reviewRoutes http.Handler
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service, reviewRoutes http.Handler) *Handler {
	return &Handler{
		catalogService: service,
		reviewRoutes:   reviewRoutes,
	}
}

// Routes returns a [chi.Router] with the catalog endpoints.
//
// Reads are public; every write requires the admin tier.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/categories", func(router chi.Router) {
		router.Get("/", handler.listCategories)
		router.Group(func(router chi.Router) {
			router.Use(middleware.RequireRole(sec.RoleAdmin))
			router.Post("/", handler.createCategory)
			router.Delete("/{slug}", handler.deleteCategory)
		})
	})

	router.Route("/genres", func(router chi.Router) {
		router.Get("/", handler.listGenres)
		router.Group(func(router chi.Router) {
			router.Use(middleware.RequireRole(sec.RoleAdmin))
			router.Post("/", handler.createGenre)
			router.Delete("/{slug}", handler.deleteGenre)
		})
	})

	router.Route("/titles", func(router chi.Router) {
		router.Get("/", handler.listTitles)
		router.Get("/{titleID}", handler.getTitle)
		router.Group(func(router chi.Router) {
			router.Use(middleware.RequireRole(sec.RoleAdmin))
			router.Post("/", handler.createTitle)
			router.Patch("/{titleID}", handler.updateTitle)
			router.Delete("/{titleID}", handler.deleteTitle)
		})

		if handler.reviewRoutes != nil {
			router.Mount("/{titleID}/reviews", handler.reviewRoutes)
		}
	})

	return router
}

// # Category Endpoints

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	categories, total, err := handler.catalogService.ListCategories(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(params.Page, params.Limit, total))
}

// referenceRequest is the shared create payload for categories and genres.
// Slug is optional and derived from the name when omitted.
type referenceRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// validateReference runs the shared rules for category/genre creation.
func validateReference(input referenceRequest) error {
	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, maxCatalogNameLen)
	if input.Slug != "" {
		v.Slug("slug", input.Slug).
			MaxLen("slug", input.Slug, maxSlugLen)
	}
	return v.Err()
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input referenceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateReference(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.catalogService.CreateCategory(request.Context(), input.Name, input.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.catalogService.DeleteCategory(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Genre Endpoints

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	genres, total, err := handler.catalogService.ListGenres(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input referenceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateReference(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.catalogService.CreateGenre(request.Context(), input.Name, input.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.catalogService.DeleteGenre(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Title Endpoints

/*
GET /api/v1/titles.

Description: Lists titles with optional filters (?category=, ?genre=,
?name=, ?year=) and ratings attached.

Response:
  - 200: []Title with pagination meta
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := TitleFilter{
		CategorySlug: values.Get("category"),
		GenreSlug:    values.Get("genre"),
		Name:         values.Get("name"),
	}
	if year, ok := query.Int(values.Get("year")); ok {
		filter.Year = year
	}

	titles, total, err := handler.catalogService.ListTitles(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.GetTitle(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// titleRequest defines the create payload for titles.
type titleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input titleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, maxCatalogNameLen).
		Custom("year", input.Year == 0, "This field is required").
		YearNotFuture("year", input.Year)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.CreateTitle(request.Context(), CreateTitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

// updateTitleRequest defines the partial-update payload for titles.
type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required("name", *input.Name).
			MaxLen("name", *input.Name, maxCatalogNameLen)
	}
	if input.Year != nil {
		v.YearNotFuture("year", *input.Year)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.UpdateTitle(request.Context(), titleID, UpdateTitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalogService.DeleteTitle(request.Context(), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
