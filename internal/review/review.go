// Copyright (c) 2026 Revora. All rights reserved.

// Package review implements the social layer of the catalog: reviews
// scored 1-10 against titles, and comments threaded under reviews.
//
// The central invariant is one review per (author, title). It is enforced
// twice: a service pre-check that yields a friendly 409, and a database
// unique index that catches concurrent duplicates — the storage error is
// classified back to 409 by dberr.
package review

import "time"

// Author is the denormalized account reference attached to reviews and
// comments on reads.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Review is a scored appraisal of a title.
type Review struct {
	ID      int64  `json:"id"`
	TitleID int64  `json:"title_id"`
	Author  Author `json:"author"`
	Text    string `json:"text"`

	// Score is an integer in [1, 10].
	Score int `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Comment is a threaded remark under a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Score bounds for reviews.
const (
	MinScore = 1
	MaxScore = 10
)
