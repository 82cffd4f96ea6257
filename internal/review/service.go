// Copyright (c) 2026 Revora. All rights reserved.

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/sec"
	"github.com/revora-app/revora/pkg/pagination"
)

// Actor identifies the authenticated requester for write operations.
type Actor struct {
	ID       string
	Username string
	Role     sec.UserRole
}

// Service orchestrates review and comment business logic: parent
// existence checks, the one-review-per-title invariant, and
// author-or-staff mutation rights.
type Service struct {
	repository Repository
	titles     TitleDirectory
	logger     *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(repository Repository, titles TitleDirectory, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		titles:     titles,
		logger:     logger,
	}
}

// # Reviews

func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repository.ListReviews(context, titleID, params)
}

func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	review, err := service.repository.FindReviewByID(context, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("review_service_get_failed: %w", err)
	}
	return review, nil
}

/*
CreateReview posts a new review on behalf of the actor.

Description: The (author, title) pair must be unique. A pre-check yields
a descriptive 409; a concurrent duplicate slipping past it hits the
unique index and is classified to 409 by the storage layer.

Parameters:
  - context: context.Context
  - actor: Actor (authenticated author)
  - titleID: int64
  - text: string (pre-validated non-empty)
  - score: int (pre-validated in [MinScore, MaxScore])

Returns:
  - *Review: The created review
  - error: Not found, conflict, or storage failures
*/
func (service *Service) CreateReview(context context.Context, actor Actor, titleID int64, text string, score int) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	existing, err := service.repository.FindReviewByAuthor(context, titleID, actor.ID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("review_service_duplicate_check_failed: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("You have already reviewed this title")
	}

	review := &Review{
		TitleID: titleID,
		Author:  Author{ID: actor.ID, Username: actor.Username},
		Text:    text,
		Score:   score,
	}

	if err := service.repository.CreateReview(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
	)

	return review, nil
}

// UpdateReviewInput defines the partial-update fields for a review.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

func (service *Service) UpdateReview(context context.Context, actor Actor, titleID, reviewID int64, input UpdateReviewInput) (*Review, error) {
	review, err := service.repository.FindReviewByID(context, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("review_service_update_lookup_failed: %w", err)
	}

	if !sec.CanModifyAuthored(actor.Role, actor.ID, review.Author.ID) {
		return nil, apperr.Forbidden("You may only edit your own reviews")
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := service.repository.UpdateReview(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.Info("review_updated", slog.Int64("review_id", reviewID))

	return review, nil
}

func (service *Service) DeleteReview(context context.Context, actor Actor, titleID, reviewID int64) error {
	review, err := service.repository.FindReviewByID(context, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("review_service_delete_lookup_failed: %w", err)
	}

	if !sec.CanModifyAuthored(actor.Role, actor.ID, review.Author.ID) {
		return apperr.Forbidden("You may only delete your own reviews")
	}

	if err := service.repository.DeleteReview(context, titleID, reviewID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logger.Info("review_deleted", slog.Int64("review_id", reviewID))

	return nil
}

// # Comments

func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.repository.FindReviewByID(context, titleID, reviewID); err != nil {
		return nil, 0, fmt.Errorf("review_service_comment_parent_failed: %w", err)
	}
	return service.repository.ListComments(context, reviewID, params)
}

func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repository.FindReviewByID(context, titleID, reviewID); err != nil {
		return nil, fmt.Errorf("review_service_comment_parent_failed: %w", err)
	}

	comment, err := service.repository.FindCommentByID(context, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("review_service_get_comment_failed: %w", err)
	}
	return comment, nil
}

func (service *Service) CreateComment(context context.Context, actor Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if _, err := service.repository.FindReviewByID(context, titleID, reviewID); err != nil {
		return nil, fmt.Errorf("review_service_comment_parent_failed: %w", err)
	}

	comment := &Comment{
		ReviewID: reviewID,
		Author:   Author{ID: actor.ID, Username: actor.Username},
		Text:     text,
	}

	if err := service.repository.CreateComment(context, comment); err != nil {
		return nil, fmt.Errorf("review_service_create_comment_failed: %w", err)
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
	)

	return comment, nil
}

func (service *Service) UpdateComment(context context.Context, actor Actor, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	if _, err := service.repository.FindReviewByID(context, titleID, reviewID); err != nil {
		return nil, fmt.Errorf("review_service_comment_parent_failed: %w", err)
	}

	comment, err := service.repository.FindCommentByID(context, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("review_service_update_comment_lookup_failed: %w", err)
	}

	if !sec.CanModifyAuthored(actor.Role, actor.ID, comment.Author.ID) {
		return nil, apperr.Forbidden("You may only edit your own comments")
	}

	comment.Text = text

	if err := service.repository.UpdateComment(context, comment); err != nil {
		return nil, fmt.Errorf("review_service_update_comment_failed: %w", err)
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", commentID))

	return comment, nil
}

func (service *Service) DeleteComment(context context.Context, actor Actor, titleID, reviewID, commentID int64) error {
	if _, err := service.repository.FindReviewByID(context, titleID, reviewID); err != nil {
		return fmt.Errorf("review_service_comment_parent_failed: %w", err)
	}

	comment, err := service.repository.FindCommentByID(context, reviewID, commentID)
	if err != nil {
		return fmt.Errorf("review_service_delete_comment_lookup_failed: %w", err)
	}

	if !sec.CanModifyAuthored(actor.Role, actor.ID, comment.Author.ID) {
		return apperr.Forbidden("You may only delete your own comments")
	}

	if err := service.repository.DeleteComment(context, reviewID, commentID); err != nil {
		return fmt.Errorf("review_service_delete_comment_failed: %w", err)
	}

	service.logger.Info("comment_deleted", slog.Int64("comment_id", commentID))

	return nil
}

// # Internal Helpers

// requireTitle turns a missing parent title into a 404.
func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.titles.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// isNotFound reports whether err resolves to a 404-class application error.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
