// Copyright (c) 2026 Revora. All rights reserved.

// Package catalog manages the reviewable works: titles and their
// classification into categories and genres.
//
// Categories and genres are slug-addressed reference data with a
// list/create/delete lifecycle. Titles carry full CRUD plus a derived
// rating: the arithmetic mean of associated review scores, recomputed on
// every read from scores supplied by the review store.
package catalog

import "time"

// Category is a coarse classification for a title (e.g. "movies").
// A title belongs to at most one category.
type Category struct {
	ID        int       `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Genre is a fine-grained classification. Titles carry any number of genres.
type Genre struct {
	ID        int       `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Title is a reviewable work.
type Title struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description *string `json:"description"`

	// Category is nil when the title is uncategorized (including after
	// its category was deleted).
	Category *Category `json:"category"`
	Genres   []Genre   `json:"genres"`

	// Rating is the mean review score, nil when the title has no reviews.
	Rating *float64 `json:"rating"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TitleFilter narrows a title listing. Zero values disable each criterion.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}
