// Copyright (c) 2026 Revora. All rights reserved.

/*
Package review (Postgres) implements the social storage layer.

# Schema Table Mapping
  - social.review: Scored reviews, UNIQUE (titleid, authorid), FK to
    catalog.title with CASCADE delete.
  - social.comment: Comments, FK to social.review with CASCADE delete.

Reads join users.account to denormalize the author's username.
*/
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revora-app/revora/internal/platform/apperr"
	"github.com/revora-app/revora/internal/platform/database/schema"
	"github.com/revora-app/revora/internal/platform/dberr"
	"github.com/revora-app/revora/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres implementation for reviews.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// reviewSelect is the canonical joined SELECT for hydrating a [Review].
func reviewSelect() string {
	r := schema.SocialReview
	u := schema.UserAccount
	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, u.%s, u.%s
		FROM %s r
		JOIN %s u ON r.%s = u.%s`,
		r.ID, r.TitleID, r.Body, r.Score, r.CreatedAt, r.UpdatedAt, u.ID, u.Username,
		r.Table, u.Table, r.AuthorID, u.ID)
}

// scanReview hydrates a [Review] from a row matching [reviewSelect].
func scanReview(row interface{ Scan(dest ...any) error }) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Author.ID,
		&review.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// # Reviews

func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	r := schema.SocialReview

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.Table, r.TitleID)
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		reviewSelect(), r.TitleID, r.CreatedAt, r.ID)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_review_scan_failed: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

func (repository *PostgresRepository) FindReviewByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`, reviewSelect(), r.ID, r.TitleID)

	review, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_find_failed: %w", err)
	}

	return review, nil
}

func (repository *PostgresRepository) FindReviewByAuthor(context context.Context, titleID int64, authorID string) (*Review, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`, reviewSelect(), r.TitleID, r.AuthorID)

	review, err := scanReview(repository.pool.QueryRow(context, query, titleID, authorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_find_by_author_failed: %w", err)
	}

	return review, nil
}

func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		r.Table, r.TitleID, r.AuthorID, r.Body, r.Score,
		r.ID, r.CreatedAt, r.UpdatedAt)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.Author.ID, review.Text, review.Score,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "You have already reviewed this title")
	}

	return nil
}

func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		r.Table, r.Body, r.Score, r.UpdatedAt, r.ID, r.UpdatedAt)

	err := repository.pool.QueryRow(context, query,
		review.ID, review.Text, review.Score,
	).Scan(&review.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Review")
		}
		return fmt.Errorf("postgres_review_update_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) DeleteReview(context context.Context, titleID, reviewID int64) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, r.Table, r.ID, r.TitleID)

	tag, err := repository.pool.Exec(context, query, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("postgres_review_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// # Comments

// commentSelect is the canonical joined SELECT for hydrating a [Comment].
func commentSelect() string {
	c := schema.SocialComment
	u := schema.UserAccount
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, u.%s, u.%s
		FROM %s c
		JOIN %s u ON c.%s = u.%s`,
		c.ID, c.ReviewID, c.Body, c.CreatedAt, c.UpdatedAt, u.ID, u.Username,
		c.Table, u.Table, c.AuthorID, u.ID)
}

// scanComment hydrates a [Comment] from a row matching [commentSelect].
func scanComment(row interface{ Scan(dest ...any) error }) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Author.ID,
		&comment.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	c := schema.SocialComment

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, c.Table, c.ReviewID)
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		commentSelect(), c.ReviewID, c.CreatedAt, c.ID)

	rows, err := repository.pool.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, total, rows.Err()
}

func (repository *PostgresRepository) FindCommentByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	c := schema.SocialComment
	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2`, commentSelect(), c.ID, c.ReviewID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_find_failed: %w", err)
	}

	return comment, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s, %s`,
		c.Table, c.ReviewID, c.AuthorID, c.Body,
		c.ID, c.CreatedAt, c.UpdatedAt)

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID, comment.Author.ID, comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("postgres_comment_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		c.Table, c.Body, c.UpdatedAt, c.ID, c.UpdatedAt)

	err := repository.pool.QueryRow(context, query, comment.ID, comment.Text).
		Scan(&comment.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Comment")
		}
		return fmt.Errorf("postgres_comment_update_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) DeleteComment(context context.Context, reviewID, commentID int64) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, c.Table, c.ID, c.ReviewID)

	tag, err := repository.pool.Exec(context, query, commentID, reviewID)
	if err != nil {
		return fmt.Errorf("postgres_comment_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// # Score Aggregation

// ScoresForTitles returns all review scores grouped by title ID. One
// query serves a whole page of titles; absent keys mean no reviews.
func (repository *PostgresRepository) ScoresForTitles(context context.Context, titleIDs []int64) (map[int64][]int, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1)`,
		r.TitleID, r.Score, r.Table, r.TitleID)

	rows, err := repository.pool.Query(context, query, titleIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_review_scores_failed: %w", err)
	}
	defer rows.Close()

	scores := make(map[int64][]int)
	for rows.Next() {
		var titleID int64
		var score int
		if err := rows.Scan(&titleID, &score); err != nil {
			return nil, fmt.Errorf("postgres_review_scan_score_failed: %w", err)
		}
		scores[titleID] = append(scores[titleID], score)
	}

	return scores, rows.Err()
}
