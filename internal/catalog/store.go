// Copyright (c) 2026 Revora. All rights reserved.

package catalog

import (
	"context"

	"github.com/revora-app/revora/pkg/pagination"
)

// Repository defines the persistence contract for the catalog.
type Repository interface {
	// Categories
	ListCategories(context context.Context, search string, params pagination.Params) ([]*Category, int, error)
	FindCategoryBySlug(context context.Context, slug string) (*Category, error)
	CreateCategory(context context.Context, category *Category) error
	DeleteCategoryBySlug(context context.Context, slug string) error

	// Genres
	ListGenres(context context.Context, search string, params pagination.Params) ([]*Genre, int, error)
	FindGenresBySlugs(context context.Context, slugs []string) ([]Genre, error)
	CreateGenre(context context.Context, genre *Genre) error
	DeleteGenreBySlug(context context.Context, slug string) error

	// Titles
	ListTitles(context context.Context, filter TitleFilter, params pagination.Params) ([]*Title, int, error)
	FindTitleByID(context context.Context, id int64) (*Title, error)
	CreateTitle(context context.Context, title *Title) error
	UpdateTitle(context context.Context, title *Title) error
	DeleteTitle(context context.Context, id int64) error
	TitleExists(context context.Context, id int64) (bool, error)
}

// ScoreSource supplies review scores for rating computation. It is
// implemented by the review store; the catalog never reads review rows
// directly.
type ScoreSource interface {
	// ScoresForTitles returns all review scores grouped by title ID.
	// Titles without reviews are absent from the map.
	ScoresForTitles(context context.Context, titleIDs []int64) (map[int64][]int, error)
}
