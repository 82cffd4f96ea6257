// Copyright (c) 2026 Revora. All rights reserved.

// Command loader performs a one-shot import of catalog seed data from CSV
// files into a live Revora database, and can grant the superuser flag to
// an existing account.
//
// # Expected Files
//
//	category.csv     id,name,slug
//	genre.csv        id,name,slug
//	titles.csv       id,name,year,category
//	genre_title.csv  id,title_id,genre_id
//
// Rows are inserted with their explicit IDs; the relevant sequences are
// advanced afterwards so subsequent API inserts do not collide.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revora-app/revora/internal/platform/database/schema"
	pgstore "github.com/revora-app/revora/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "revora-loader"))

	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	dataDir := flag.String("dir", "./static/data", "directory containing the CSV files")
	promote := flag.String("promote", "", "username to grant the superuser flag (skips CSV import)")
	flag.Parse()

	if *dsn == "" {
		log.Error("missing database DSN (set DATABASE_URL or pass -dsn)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *dsn, log)
	if err != nil {
		log.Error("connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if *promote != "" {
		if err := promoteSuperuser(ctx, pool, *promote); err != nil {
			log.Error("promotion failed", slog.String("username", *promote), slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("superuser_granted", slog.String("username", *promote))
		return
	}

	if err := importCatalog(ctx, pool, *dataDir, log); err != nil {
		log.Error("import failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("import_complete")
}

// promoteSuperuser sets the superuser flag on an existing account.
func promoteSuperuser(ctx context.Context, pool *pgxpool.Pool, username string) error {
	u := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE LOWER(%s) = LOWER($1)`,
		u.Table, u.IsSuperuser, u.UpdatedAt, u.Username)

	tag, err := pool.Exec(ctx, query, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no account named %q", username)
	}
	return nil
}

// importCatalog loads the four catalog CSV files in dependency order.
func importCatalog(ctx context.Context, pool *pgxpool.Pool, dir string, log *slog.Logger) error {
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	t := schema.CatalogTitle
	tg := schema.CatalogTitleGenre

	steps := []struct {
		file   string
		insert string
		fields int
		args   func(row []string) ([]any, error)
	}{
		{
			file: "category.csv",
			insert: fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
				c.Table, c.ID, c.Name, c.Slug),
			fields: 3,
			args: func(row []string) ([]any, error) {
				id, err := strconv.Atoi(row[0])
				if err != nil {
					return nil, err
				}
				return []any{id, row[1], row[2]}, nil
			},
		},
		{
			file: "genre.csv",
			insert: fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
				g.Table, g.ID, g.Name, g.Slug),
			fields: 3,
			args: func(row []string) ([]any, error) {
				id, err := strconv.Atoi(row[0])
				if err != nil {
					return nil, err
				}
				return []any{id, row[1], row[2]}, nil
			},
		},
		{
			file: "titles.csv",
			insert: fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
				t.Table, t.ID, t.Name, t.ReleaseYear, t.CategoryID),
			fields: 4,
			args: func(row []string) ([]any, error) {
				id, err := strconv.ParseInt(row[0], 10, 64)
				if err != nil {
					return nil, err
				}
				year, err := strconv.Atoi(row[2])
				if err != nil {
					return nil, err
				}
				var categoryID *int
				if row[3] != "" {
					parsed, err := strconv.Atoi(row[3])
					if err != nil {
						return nil, err
					}
					categoryID = &parsed
				}
				return []any{id, row[1], year, categoryID}, nil
			},
		},
		{
			file: "genre_title.csv",
			insert: fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
				tg.Table, tg.TitleID, tg.GenreID),
			fields: 3,
			args: func(row []string) ([]any, error) {
				titleID, err := strconv.ParseInt(row[1], 10, 64)
				if err != nil {
					return nil, err
				}
				genreID, err := strconv.Atoi(row[2])
				if err != nil {
					return nil, err
				}
				return []any{titleID, genreID}, nil
			},
		},
	}

	for _, step := range steps {
		count, err := importFile(ctx, pool, filepath.Join(dir, step.file), step.insert, step.fields, step.args)
		if err != nil {
			return fmt.Errorf("loader: %s: %w", step.file, err)
		}
		log.Info("file_imported", slog.String("file", step.file), slog.Int("rows", count))
	}

	// Advance sequences past the explicit IDs.
	sequenceFixes := []string{
		fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s`,
			c.Table, c.ID, c.ID, c.Table),
		fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s`,
			g.Table, g.ID, g.ID, g.Table),
		fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s`,
			t.Table, t.ID, t.ID, t.Table),
	}
	for _, fix := range sequenceFixes {
		if _, err := pool.Exec(ctx, fix); err != nil {
			return fmt.Errorf("loader: sequence fix failed: %w", err)
		}
	}

	return nil
}

// importFile streams one CSV file into the database. The first row is
// treated as a header and skipped.
func importFile(
	ctx context.Context,
	pool *pgxpool.Pool,
	path string,
	insert string,
	fields int,
	args func(row []string) ([]any, error),
) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = fields

	// Header row
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}

		values, err := args(row)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}

		if _, err := pool.Exec(ctx, insert, values...); err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}
		count++
	}

	return count, nil
}
