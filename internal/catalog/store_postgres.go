// Copyright (c) 2026 Revora. All rights reserved.

/*
Package catalog (Postgres) implements the catalog storage layer.

# Schema Table Mapping
  - catalog.category: Slug-addressed category reference data.
  - catalog.genre: Slug-addressed genre reference data.
  - catalog.title: Reviewable works, FK to category (SET NULL on delete).
  - catalog.titlegenre: Title ↔ genre join rows.
*/
package catalog

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

// NewPostgresRepository creates the Postgres implementation for the catalog.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Categories

func (repository *PostgresRepository) ListCategories(context context.Context, search string, params pagination.Params) ([]*Category, int, error) {
	t := schema.CatalogCategory

	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE $1 OR %s ILIKE $1", t.Name, t.Slug)
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_count_categories_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s %s
		ORDER BY %s ASC
		LIMIT $%d OFFSET $%d`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, where, t.Name, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_categories_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category := &Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_scan_category_failed: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, total, rows.Err()
}

func (repository *PostgresRepository) FindCategoryBySlug(context context.Context, slug string) (*Category, error) {
	t := schema.CatalogCategory
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Slug)

	category := &Category{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&category.ID, &category.Name, &category.Slug, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("postgres_catalog_find_category_failed: %w", err)
	}

	return category, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, category *Category) error {
	t := schema.CatalogCategory
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		t.Table, t.Name, t.Slug, t.ID, t.CreatedAt)

	err := repository.pool.QueryRow(context, query, category.Name, category.Slug).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "A category with this slug already exists")
	}

	return nil
}

func (repository *PostgresRepository) DeleteCategoryBySlug(context context.Context, slug string) error {
	t := schema.CatalogCategory
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return fmt.Errorf("postgres_catalog_delete_category_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

// # Genres

func (repository *PostgresRepository) ListGenres(context context.Context, search string, params pagination.Params) ([]*Genre, int, error) {
	t := schema.CatalogGenre

	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE $1 OR %s ILIKE $1", t.Name, t.Slug)
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_count_genres_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s %s
		ORDER BY %s ASC
		LIMIT $%d OFFSET $%d`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, where, t.Name, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_genres_failed: %w", err)
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		genre := &Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_scan_genre_failed: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, total, rows.Err()
}

func (repository *PostgresRepository) FindGenresBySlugs(context context.Context, slugs []string) ([]Genre, error) {
	t := schema.CatalogGenre
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		t.ID, t.Name, t.Slug, t.CreatedAt, t.Table, t.Slug, t.Name)

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_find_genres_failed: %w", err)
	}
	defer rows.Close()

	genres := make([]Genre, 0, len(slugs))
	for rows.Next() {
		genre := Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_catalog_scan_genre_failed: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, rows.Err()
}

func (repository *PostgresRepository) CreateGenre(context context.Context, genre *Genre) error {
	t := schema.CatalogGenre
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		t.Table, t.Name, t.Slug, t.ID, t.CreatedAt)

	err := repository.pool.QueryRow(context, query, genre.Name, genre.Slug).
		Scan(&genre.ID, &genre.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "A genre with this slug already exists")
	}

	return nil
}

func (repository *PostgresRepository) DeleteGenreBySlug(context context.Context, slug string) error {
	t := schema.CatalogGenre
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return fmt.Errorf("postgres_catalog_delete_genre_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}

// # Titles

func (repository *PostgresRepository) ListTitles(context context.Context, filter TitleFilter, params pagination.Params) ([]*Title, int, error) {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	tg := schema.CatalogTitleGenre
	g := schema.CatalogGenre

	where := ""
	args := []any{}
	addClause := func(clause string, value any) {
		args = append(args, value)
		clause = fmt.Sprintf(clause, len(args))
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if filter.CategorySlug != "" {
		addClause("c."+c.Slug+" = $%d", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		subquery := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s tg JOIN %s g ON tg.%s = g.%s WHERE tg.%s = t.%s AND g.%s = $%%d)",
			tg.Table, g.Table, tg.GenreID, g.ID, tg.TitleID, t.ID, g.Slug)
		addClause(subquery, filter.GenreSlug)
	}
	if filter.Name != "" {
		addClause("t."+t.Name+" ILIKE $%d", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		addClause("t."+t.ReleaseYear+" = $%d", filter.Year)
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		%s`,
		t.Table, c.Table, t.CategoryID, c.ID, where)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_count_titles_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		%s
		ORDER BY t.%s ASC, t.%s ASC
		LIMIT $%d OFFSET $%d`,
		t.ID, t.Name, t.ReleaseYear, t.Description, t.CreatedAt, t.UpdatedAt,
		c.ID, c.Name, c.Slug,
		t.Table, c.Table, t.CategoryID, c.ID,
		where,
		t.Name, t.ID,
		len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_list_titles_failed: %w", err)
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_scan_title_failed: %w", err)
		}
		titles = append(titles, title)
	}
	rows.Close()

	if err := repository.loadGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) FindTitleByID(context context.Context, id int64) (*Title, error) {
	t := schema.CatalogTitle
	c := schema.CatalogCategory

	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1`,
		t.ID, t.Name, t.ReleaseYear, t.Description, t.CreatedAt, t.UpdatedAt,
		c.ID, c.Name, c.Slug,
		t.Table, c.Table, t.CategoryID, c.ID,
		t.ID)

	title, err := scanTitle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("postgres_catalog_find_title_failed: %w", err)
	}

	if err := repository.loadGenres(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (repository *PostgresRepository) CreateTitle(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_catalog_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		t.Table, t.Name, t.ReleaseYear, t.Description, t.CategoryID,
		t.ID, t.CreatedAt, t.UpdatedAt)

	err = transaction.QueryRow(context, query,
		title.Name, title.Year, title.Description, categoryIDOf(title),
	).Scan(&title.ID, &title.CreatedAt, &title.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if err := replaceGenreLinks(context, transaction, title); err != nil {
		return err
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) UpdateTitle(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_catalog_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		t.Table,
		t.Name, t.ReleaseYear, t.Description, t.CategoryID, t.UpdatedAt,
		t.ID,
		t.UpdatedAt)

	err = transaction.QueryRow(context, query,
		title.ID, title.Name, title.Year, title.Description, categoryIDOf(title),
	).Scan(&title.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Title")
		}
		return dberr.Wrap(err, "")
	}

	tg := schema.CatalogTitleGenre
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tg.Table, tg.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, title.ID); err != nil {
		return fmt.Errorf("postgres_catalog_clear_genres_failed: %w", err)
	}

	if err := replaceGenreLinks(context, transaction, title); err != nil {
		return err
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) DeleteTitle(context context.Context, id int64) error {
	t := schema.CatalogTitle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_catalog_delete_title_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

func (repository *PostgresRepository) TitleExists(context context.Context, id int64) (bool, error) {
	t := schema.CatalogTitle
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, t.Table, t.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_catalog_title_exists_failed: %w", err)
	}

	return exists, nil
}

// # Internal Helpers

// scanTitle hydrates a [Title] (and its optional category) from the joined
// title row shape.
func scanTitle(row interface{ Scan(dest ...any) error }) (*Title, error) {
	title := &Title{Genres: make([]Genre, 0)}

	var categoryID *int
	var categoryName, categorySlug *string

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &Category{
			ID:   *categoryID,
			Name: *categoryName,
			Slug: *categorySlug,
		}
	}

	return title, nil
}

// loadGenres attaches genre lists to a page of titles with one join query.
func (repository *PostgresRepository) loadGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	titleByID := make(map[int64]*Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		titleByID[title.ID] = title
		ids = append(ids, title.ID)
	}

	tg := schema.CatalogTitleGenre
	g := schema.CatalogGenre
	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON tg.%s = g.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		tg.TitleID, g.ID, g.Name, g.Slug, g.CreatedAt,
		tg.Table, g.Table, tg.GenreID, g.ID,
		tg.TitleID,
		g.Name)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_catalog_load_genres_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		genre := Genre{}
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return fmt.Errorf("postgres_catalog_scan_genre_link_failed: %w", err)
		}
		if title, ok := titleByID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}

	return rows.Err()
}

// replaceGenreLinks inserts join rows for the title's current genre set.
func replaceGenreLinks(context context.Context, transaction pgx.Tx, title *Title) error {
	tg := schema.CatalogTitleGenre
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		tg.Table, tg.TitleID, tg.GenreID)

	for _, genre := range title.Genres {
		if _, err := transaction.Exec(context, query, title.ID, genre.ID); err != nil {
			return fmt.Errorf("postgres_catalog_link_genre_failed: %w", err)
		}
	}

	return nil
}

// categoryIDOf returns the nullable category FK value for a title.
func categoryIDOf(title *Title) *int {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}
