// Copyright (c) 2026 Revora. All rights reserved.

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table     string
	ID        string
	TitleID   string
	AuthorID  string
	Body      string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:     "social.review",
	ID:        "id",
	TitleID:   "titleid",
	AuthorID:  "authorid",
	Body:      "body",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Body, t.Score, t.CreatedAt, t.UpdatedAt}
}
