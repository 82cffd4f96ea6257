// Copyright (c) 2026 Revora. All rights reserved.

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revora-app/revora/internal/catalog"
	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/pkg/pagination"
	"github.com/revora-app/revora/pkg/pointer"
)

// fakeRepository is an in-memory catalog.Repository for service tests.
type fakeRepository struct {
	categories map[string]*catalog.Category
	genres     map[string]*catalog.Genre
	titles     map[int64]*catalog.Title
	nextID     int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		categories: make(map[string]*catalog.Category),
		genres:     make(map[string]*catalog.Genre),
		titles:     make(map[int64]*catalog.Title),
		nextID:     1,
	}
}

func (f *fakeRepository) ListCategories(_ context.Context, _ string, _ pagination.Params) ([]*catalog.Category, int, error) {
	out := make([]*catalog.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeRepository) FindCategoryBySlug(_ context.Context, slug string) (*catalog.Category, error) {
	category, ok := f.categories[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return category, nil
}

func (f *fakeRepository) CreateCategory(_ context.Context, category *catalog.Category) error {
	if _, exists := f.categories[category.Slug]; exists {
		return apperr.Conflict("A category with this slug already exists")
	}
	category.ID = int(f.nextID)
	f.nextID++
	f.categories[category.Slug] = category
	return nil
}

func (f *fakeRepository) DeleteCategoryBySlug(_ context.Context, slug string) error {
	if _, ok := f.categories[slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(f.categories, slug)
	return nil
}

func (f *fakeRepository) ListGenres(_ context.Context, _ string, _ pagination.Params) ([]*catalog.Genre, int, error) {
	out := make([]*catalog.Genre, 0, len(f.genres))
	for _, g := range f.genres {
		out = append(out, g)
	}
	return out, len(out), nil
}

func (f *fakeRepository) FindGenresBySlugs(_ context.Context, slugs []string) ([]catalog.Genre, error) {
	out := make([]catalog.Genre, 0, len(slugs))
	for _, slug := range slugs {
		if genre, ok := f.genres[slug]; ok {
			out = append(out, *genre)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateGenre(_ context.Context, genre *catalog.Genre) error {
	if _, exists := f.genres[genre.Slug]; exists {
		return apperr.Conflict("A genre with this slug already exists")
	}
	genre.ID = int(f.nextID)
	f.nextID++
	f.genres[genre.Slug] = genre
	return nil
}

func (f *fakeRepository) DeleteGenreBySlug(_ context.Context, slug string) error {
	if _, ok := f.genres[slug]; !ok {
		return apperr.NotFound("Genre")
	}
	delete(f.genres, slug)
	return nil
}

func (f *fakeRepository) ListTitles(_ context.Context, _ catalog.TitleFilter, _ pagination.Params) ([]*catalog.Title, int, error) {
	out := make([]*catalog.Title, 0, len(f.titles))
	for _, title := range f.titles {
		out = append(out, title)
	}
	return out, len(out), nil
}

func (f *fakeRepository) FindTitleByID(_ context.Context, id int64) (*catalog.Title, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return title, nil
}

func (f *fakeRepository) CreateTitle(_ context.Context, title *catalog.Title) error {
	title.ID = f.nextID
	f.nextID++
	f.titles[title.ID] = title
	return nil
}

func (f *fakeRepository) UpdateTitle(_ context.Context, title *catalog.Title) error {
	if _, ok := f.titles[title.ID]; !ok {
		return apperr.NotFound("Title")
	}
	f.titles[title.ID] = title
	return nil
}

func (f *fakeRepository) DeleteTitle(_ context.Context, id int64) error {
	if _, ok := f.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(f.titles, id)
	return nil
}

func (f *fakeRepository) TitleExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.titles[id]
	return ok, nil
}

// fakeScores is a canned catalog.ScoreSource.
type fakeScores struct {
	scores map[int64][]int
}

func (f *fakeScores) ScoresForTitles(_ context.Context, titleIDs []int64) (map[int64][]int, error) {
	out := make(map[int64][]int)
	for _, id := range titleIDs {
		if s, ok := f.scores[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func newTestService(repository *fakeRepository, scores *fakeScores) *catalog.Service {
	if scores == nil {
		scores = &fakeScores{scores: map[int64][]int{}}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.NewService(repository, scores, logger)
}

/*
TestService_CreateCategory_DerivesSlug verifies slug derivation from the
name when no explicit slug is supplied.
*/
func TestService_CreateCategory_DerivesSlug(t *testing.T) {
	tests := []struct {
		name         string
		categoryName string
		slug         string
		expectedSlug string
	}{
		{"derived", "Science Fiction", "", "science-fiction"},
		{"explicit_wins", "Science Fiction", "sci-fi", "sci-fi"},
		{"accents_stripped", "Café Culture", "", "cafe-culture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(), nil)

			category, err := service.CreateCategory(context.Background(), tt.categoryName, tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSlug, category.Slug)
		})
	}
}

/*
TestService_CreateCategory_DuplicateSlug surfaces the repository conflict.
*/
func TestService_CreateCategory_DuplicateSlug(t *testing.T) {
	service := newTestService(newFakeRepository(), nil)

	_, err := service.CreateCategory(context.Background(), "Movies", "movies")
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), "Films", "movies")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_CreateTitle_UnknownCategory rejects an unresolvable category
slug as a field-level validation error.
*/
func TestService_CreateTitle_UnknownCategory(t *testing.T) {
	service := newTestService(newFakeRepository(), nil)

	_, err := service.CreateTitle(context.Background(), catalog.CreateTitleInput{
		Name:         "Blade Runner",
		Year:         1982,
		CategorySlug: "no-such-category",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "category", ae.Details[0].Field)
}

/*
TestService_CreateTitle_UnknownGenre rejects a genre list containing an
unknown slug.
*/
func TestService_CreateTitle_UnknownGenre(t *testing.T) {
	repository := newFakeRepository()
	require.NoError(t, repository.CreateGenre(context.Background(), &catalog.Genre{Name: "Drama", Slug: "drama"}))

	service := newTestService(repository, nil)

	_, err := service.CreateTitle(context.Background(), catalog.CreateTitleInput{
		Name:       "Blade Runner",
		Year:       1982,
		GenreSlugs: []string{"drama", "no-such-genre"},
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "genre", ae.Details[0].Field)
}

/*
TestService_CreateTitle_ResolvesReferences hydrates category and genres
from their slugs.
*/
func TestService_CreateTitle_ResolvesReferences(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	require.NoError(t, repository.CreateCategory(ctx, &catalog.Category{Name: "Movies", Slug: "movies"}))
	require.NoError(t, repository.CreateGenre(ctx, &catalog.Genre{Name: "Drama", Slug: "drama"}))
	require.NoError(t, repository.CreateGenre(ctx, &catalog.Genre{Name: "Sci-Fi", Slug: "sci-fi"}))

	service := newTestService(repository, nil)

	title, err := service.CreateTitle(ctx, catalog.CreateTitleInput{
		Name:         "Blade Runner",
		Year:         1982,
		CategorySlug: "movies",
		GenreSlugs:   []string{"drama", "sci-fi"},
	})
	require.NoError(t, err)

	require.NotNil(t, title.Category)
	assert.Equal(t, "movies", title.Category.Slug)
	assert.Len(t, title.Genres, 2)
	assert.NotZero(t, title.ID)
}

/*
TestService_GetTitle_Rating verifies the read-side rating fold.
*/
func TestService_GetTitle_Rating(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()

	rated := &catalog.Title{Name: "Rated", Year: 2000}
	unrated := &catalog.Title{Name: "Unrated", Year: 2001}
	require.NoError(t, repository.CreateTitle(ctx, rated))
	require.NoError(t, repository.CreateTitle(ctx, unrated))

	scores := &fakeScores{scores: map[int64][]int{
		rated.ID: {5, 10, 9},
	}}
	service := newTestService(repository, scores)

	got, err := service.GetTitle(ctx, rated.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 8.0, *got.Rating, 0.0001)

	// No reviews means no rating, not a zero rating.
	got, err = service.GetTitle(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
}

/*
TestService_UpdateTitle_ClearsCategory verifies that an explicit empty
category slug detaches the category while nil leaves it untouched.
*/
func TestService_UpdateTitle_ClearsCategory(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	require.NoError(t, repository.CreateCategory(ctx, &catalog.Category{Name: "Movies", Slug: "movies"}))

	service := newTestService(repository, nil)

	title, err := service.CreateTitle(ctx, catalog.CreateTitleInput{
		Name:         "Blade Runner",
		Year:         1982,
		CategorySlug: "movies",
	})
	require.NoError(t, err)
	require.NotNil(t, title.Category)

	// Nil slug pointer: category untouched.
	newName := "Blade Runner (Final Cut)"
	updated, err := service.UpdateTitle(ctx, title.ID, catalog.UpdateTitleInput{Name: pointer.To(newName)})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	require.NotNil(t, updated.Category)

	// Empty slug pointer: category cleared.
	updated, err = service.UpdateTitle(ctx, title.ID, catalog.UpdateTitleInput{CategorySlug: pointer.To("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
}

/*
TestService_DeleteTitle_NotFound propagates the repository not-found error.
*/
func TestService_DeleteTitle_NotFound(t *testing.T) {
	service := newTestService(newFakeRepository(), nil)

	err := service.DeleteTitle(context.Background(), 404)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
