// Copyright (c) 2026 Revora. All rights reserved.

package review

import (
	"context"

	"github.com/revora-app/revora/pkg/pagination"
)

// Repository defines the persistence contract for reviews and comments.
//
// Review lookups are scoped by title ID and comment lookups by review ID,
// so a resource addressed through the wrong parent resolves to not-found.
type Repository interface {
	// Reviews
	ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)
	FindReviewByID(context context.Context, titleID, reviewID int64) (*Review, error)
	FindReviewByAuthor(context context.Context, titleID int64, authorID string) (*Review, error)
	CreateReview(context context.Context, review *Review) error
	UpdateReview(context context.Context, review *Review) error
	DeleteReview(context context.Context, titleID, reviewID int64) error

	// Comments
	ListComments(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	FindCommentByID(context context.Context, reviewID, commentID int64) (*Comment, error)
	CreateComment(context context.Context, comment *Comment) error
	UpdateComment(context context.Context, comment *Comment) error
	DeleteComment(context context.Context, reviewID, commentID int64) error

	// ScoresForTitles returns all review scores grouped by title ID. It
	// backs the catalog's rating computation.
	ScoresForTitles(context context.Context, titleIDs []int64) (map[int64][]int, error)
}

// TitleDirectory is the catalog lookup the review service needs to verify
// that a parent title exists. Implemented by the catalog store.
type TitleDirectory interface {
	TitleExists(context context.Context, id int64) (bool, error)
}
