// Command seed wipes and recreates the database from the CSV files under
// data/. Destructive by design; never point it at a live system with user
// data.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"codequiz/internal/common/security"
	"codequiz/internal/platform/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const schema = `
DROP TABLE IF EXISTS users;
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS categories;

CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    username      VARCHAR(64)  NOT NULL UNIQUE,
    password_hash VARCHAR(128) NOT NULL,
    email         VARCHAR(128) NOT NULL UNIQUE,
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE categories (
    id   INTEGER PRIMARY KEY,
    name VARCHAR(128) NOT NULL,
    slug VARCHAR(128) NOT NULL
);

CREATE TABLE tasks (
    id             SERIAL PRIMARY KEY,
    category       INTEGER NOT NULL,
    task_id        INTEGER NOT NULL,
    description    VARCHAR(2048) NOT NULL,
    starting_code  VARCHAR(512),
    correct_answer VARCHAR(1024) NOT NULL,
    UNIQUE (category, task_id)
);
`

func main() {
	config.Load()

	db, err := sql.Open("pgx", config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("Error starting transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		log.Fatalf("Error recreating schema: %v", err)
	}

	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	if err := loadUsers(ctx, tx, filepath.Join(dataDir, "initial_users.csv")); err != nil {
		log.Fatalf("Error loading users: %v", err)
	}
	if err := loadCategories(ctx, tx, filepath.Join(dataDir, "categories.csv")); err != nil {
		log.Fatalf("Error loading categories: %v", err)
	}
	if err := loadTasks(ctx, tx, filepath.Join(dataDir, "questions.csv")); err != nil {
		log.Fatalf("Error loading tasks: %v", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Error committing seed: %v", err)
	}
	fmt.Println("Database seeded.")
}

func loadUsers(ctx context.Context, tx *sql.Tx, path string) error {
	return forEachRecord(path, func(row map[string]string) error {
		hash, err := security.HashPassword(row["password"])
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), row["username"], row["email"], hash,
		)
		return err
	})
}

func loadCategories(ctx context.Context, tx *sql.Tx, path string) error {
	return forEachRecord(path, func(row map[string]string) error {
		id, err := strconv.Atoi(row["id"])
		if err != nil {
			return fmt.Errorf("bad category id %q: %w", row["id"], err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
			id, row["name"], slug.Make(row["name"]),
		)
		return err
	})
}

func loadTasks(ctx context.Context, tx *sql.Tx, path string) error {
	return forEachRecord(path, func(row map[string]string) error {
		category, err := strconv.Atoi(row["category"])
		if err != nil {
			return fmt.Errorf("bad task category %q: %w", row["category"], err)
		}
		taskID, err := strconv.Atoi(row["task_id"])
		if err != nil {
			return fmt.Errorf("bad task_id %q: %w", row["task_id"], err)
		}
		var startingCode *string
		if code := row["starting_code"]; code != "" {
			startingCode = &code
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (category, task_id, description, starting_code, correct_answer)
			 VALUES ($1, $2, $3, $4, $5)`,
			category, taskID, row["description"], startingCode, row["correct_answer"],
		)
		return err
	})
}

// forEachRecord streams a CSV file, mapping each row by its header columns.
func forEachRecord(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	// Strip a BOM if the file was exported from a spreadsheet tool.
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func trimBOM(s string) string {
	const bom = "\uFEFF"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
