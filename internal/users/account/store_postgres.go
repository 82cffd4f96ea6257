// Copyright (c) 2026 Revora. All rights reserved.

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users.account: Master identity, role tier, and profile data.

Username and email uniqueness is enforced by functional unique indexes on
the lowercased columns, so lookups always compare lowercased values.
*/
package account

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

// NewPostgresRepository creates the Postgres implementation for accounts.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// accountColumns is the canonical SELECT column list for hydrating a [User].
func accountColumns() string {
	t := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Username, t.Email, t.Role, t.Bio, t.FirstName, t.LastName,
		t.IsSuperuser, t.IsConfirmed, t.CreatedAt, t.UpdatedAt)
}

// scanUser hydrates a [User] from a row matching [accountColumns].
func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.Bio,
		&user.FirstName,
		&user.LastName,
		&user.IsSuperuser,
		&user.IsConfirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a new user record.
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		t.Table,
		t.ID, t.Username, t.Email, t.Role, t.Bio, t.FirstName, t.LastName, t.IsSuperuser, t.IsConfirmed,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Bio,
		user.FirstName,
		user.LastName,
		user.IsSuperuser,
		user.IsConfirmed,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "An account with this username or email already exists")
	}

	return nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns(), t.Table, t.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user record by username, case-insensitively.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		accountColumns(), t.Table, t.Username)

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_find_by_username_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user record by email, case-insensitively.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		accountColumns(), t.Table, t.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_find_by_email_failed: %w", err)
	}

	return user, nil
}

// List retrieves a page of users ordered by username, with an optional
// case-insensitive username substring filter.
func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*User, int, error) {
	t := schema.UserAccount

	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE $1", t.Username)
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.Table, where)
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY %s ASC
		LIMIT $%d OFFSET $%d`,
		accountColumns(), t.Table, where, t.Username, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

// Update rewrites the mutable fields of an existing user.
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		t.Table,
		t.Email, t.Role, t.Bio, t.FirstName, t.LastName, t.IsConfirmed, t.UpdatedAt,
		t.ID,
		t.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Email,
		user.Role,
		user.Bio,
		user.FirstName,
		user.LastName,
		user.IsConfirmed,
	).Scan(&user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "An account with this email already exists")
	}

	return nil
}

// DeleteByUsername removes a user account, matching case-insensitively.
func (repository *PostgresRepository) DeleteByUsername(context context.Context, username string) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`DELETE FROM %s WHERE LOWER(%s) = LOWER($1)`, t.Table, t.Username)

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_account_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
