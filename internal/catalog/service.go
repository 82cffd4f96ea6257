// Copyright (c) 2026 Revora. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/pkg/pagination"
	"github.com/revora-app/revora/pkg/slug"
)

// Service orchestrates catalog business logic: slug derivation for
// reference data, slug resolution for title writes, and the read-side
// rating fold.
type Service struct {
	repository Repository
	scores     ScoreSource
	logger     *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository, scores ScoreSource, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		scores:     scores,
		logger:     logger,
	}
}

// # Categories

func (service *Service) ListCategories(context context.Context, search string, params pagination.Params) ([]*Category, int, error) {
	return service.repository.ListCategories(context, search, params)
}

// CreateCategory registers a new category. An empty slug is derived from
// the name.
func (service *Service) CreateCategory(context context.Context, name, slugValue string) (*Category, error) {
	if slugValue == "" {
		slugValue = slug.From(name)
	}

	category := &Category{Name: name, Slug: slugValue}
	if err := service.repository.CreateCategory(context, category); err != nil {
		return nil, fmt.Errorf("catalog_service_create_category_failed: %w", err)
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))

	return category, nil
}

func (service *Service) DeleteCategory(context context.Context, slugValue string) error {
	if err := service.repository.DeleteCategoryBySlug(context, slugValue); err != nil {
		return fmt.Errorf("catalog_service_delete_category_failed: %w", err)
	}

	service.logger.Info("category_deleted", slog.String("slug", slugValue))

	return nil
}

// # Genres

func (service *Service) ListGenres(context context.Context, search string, params pagination.Params) ([]*Genre, int, error) {
	return service.repository.ListGenres(context, search, params)
}

// CreateGenre registers a new genre. An empty slug is derived from the name.
func (service *Service) CreateGenre(context context.Context, name, slugValue string) (*Genre, error) {
	if slugValue == "" {
		slugValue = slug.From(name)
	}

	genre := &Genre{Name: name, Slug: slugValue}
	if err := service.repository.CreateGenre(context, genre); err != nil {
		return nil, fmt.Errorf("catalog_service_create_genre_failed: %w", err)
	}

	service.logger.Info("genre_created", slog.String("slug", genre.Slug))

	return genre, nil
}

func (service *Service) DeleteGenre(context context.Context, slugValue string) error {
	if err := service.repository.DeleteGenreBySlug(context, slugValue); err != nil {
		return fmt.Errorf("catalog_service_delete_genre_failed: %w", err)
	}

	service.logger.Info("genre_deleted", slog.String("slug", slugValue))

	return nil
}

// # Titles

// ListTitles returns a page of titles with their ratings attached.
func (service *Service) ListTitles(context context.Context, filter TitleFilter, params pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.repository.ListTitles(context, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_titles_failed: %w", err)
	}

	if err := service.attachRatings(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// GetTitle returns a single title with its rating attached.
func (service *Service) GetTitle(context context.Context, id int64) (*Title, error) {
	title, err := service.repository.FindTitleByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_get_title_failed: %w", err)
	}

	if err := service.attachRatings(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

// CreateTitleInput defines the fields for a new title. Category and genres
// are referenced by slug.
type CreateTitleInput struct {
	Name         string
	Year         int
	Description  *string
	CategorySlug string
	GenreSlugs   []string
}

func (service *Service) CreateTitle(context context.Context, input CreateTitleInput) (*Title, error) {
	title := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Genres:      make([]Genre, 0),
	}

	if err := service.resolveReferences(context, title, input.CategorySlug, input.GenreSlugs); err != nil {
		return nil, err
	}

	if err := service.repository.CreateTitle(context, title); err != nil {
		return nil, fmt.Errorf("catalog_service_create_title_failed: %w", err)
	}

	service.logger.Info("title_created", slog.Int64("title_id", title.ID))

	return title, nil
}

// UpdateTitleInput defines the partial-update fields for a title.
// Nil pointers leave the corresponding field untouched; an explicit empty
// CategorySlug clears the category.
type UpdateTitleInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

func (service *Service) UpdateTitle(context context.Context, id int64, input UpdateTitleInput) (*Title, error) {
	title, err := service.repository.FindTitleByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_update_title_lookup_failed: %w", err)
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = input.Description
	}

	categorySlug := ""
	if title.Category != nil {
		categorySlug = title.Category.Slug
	}
	if input.CategorySlug != nil {
		categorySlug = *input.CategorySlug
		title.Category = nil
	}

	genreSlugs := genreSlugsOf(title.Genres)
	if input.GenreSlugs != nil {
		genreSlugs = *input.GenreSlugs
		title.Genres = make([]Genre, 0)
	}

	if err := service.resolveReferences(context, title, categorySlug, genreSlugs); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateTitle(context, title); err != nil {
		return nil, fmt.Errorf("catalog_service_update_title_failed: %w", err)
	}

	service.logger.Info("title_updated", slog.Int64("title_id", title.ID))

	if err := service.attachRatings(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (service *Service) DeleteTitle(context context.Context, id int64) error {
	if err := service.repository.DeleteTitle(context, id); err != nil {
		return fmt.Errorf("catalog_service_delete_title_failed: %w", err)
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))

	return nil
}

// # Internal Helpers

// resolveReferences translates category and genre slugs into hydrated
// entities on the title. Unknown slugs surface as field-level errors.
func (service *Service) resolveReferences(context context.Context, title *Title, categorySlug string, genreSlugs []string) error {
	if categorySlug != "" {
		category, err := service.repository.FindCategoryBySlug(context, categorySlug)
		if err != nil {
			if apperr.IsAppError(err) {
				return apperr.ValidationError("Validation failed", apperr.FieldError{
					Field:   "category",
					Message: fmt.Sprintf("Unknown category %q", categorySlug),
				})
			}
			return fmt.Errorf("catalog_service_resolve_category_failed: %w", err)
		}
		title.Category = category
	}

	if len(genreSlugs) > 0 {
		genres, err := service.repository.FindGenresBySlugs(context, genreSlugs)
		if err != nil {
			return fmt.Errorf("catalog_service_resolve_genres_failed: %w", err)
		}
		if len(genres) != len(genreSlugs) {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "genre",
				Message: "One or more genre slugs are unknown",
			})
		}
		title.Genres = genres
	}

	return nil
}

// attachRatings folds review scores into each title's Rating field.
// One grouped query serves the whole page.
func (service *Service) attachRatings(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		ids = append(ids, title.ID)
	}

	scoresByTitle, err := service.scores.ScoresForTitles(context, ids)
	if err != nil {
		return fmt.Errorf("catalog_service_load_scores_failed: %w", err)
	}

	for _, title := range titles {
		title.Rating = meanScore(scoresByTitle[title.ID])
	}

	return nil
}

// meanScore computes the arithmetic mean of scores, nil for an empty slice.
func meanScore(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}

	mean := float64(sum) / float64(len(scores))
	return &mean
}

// genreSlugsOf extracts the slug list from hydrated genres.
func genreSlugsOf(genres []Genre) []string {
	slugs := make([]string, 0, len(genres))
	for _, genre := range genres {
		slugs = append(slugs, genre.Slug)
	}
	return slugs
}
