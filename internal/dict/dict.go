// Package dict provides a SQLite-backed spelling oracle.
//
// The dictionary is a single table of known-good words. It answers the case
// normalizer's "is this word valid" question and is filled from plain word
// lists (one word per line, '#' comments allowed).
//
// # Database Configuration
//
//   - WAL mode: several editor processes may consult the same dictionary
//   - busy_timeout=5000: wait for an importing process to finish
//
// Lookups fail closed: a query error reports the word as invalid, so the
// normalizer keeps the observed casing.
package dict

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// Dict is a word list stored in SQLite.
type Dict struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the dictionary at path, creating parent directories.
func Open(path string) (*Dict, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dictionary directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to dictionary: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Dict{db: db, logger: slog.Default()}, nil
}

// Close closes the database connection.
func (d *Dict) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// IsValidWord reports whether word is in the dictionary.
func (d *Dict) IsValidWord(word string) bool {
	ok, err := d.Contains(context.Background(), word)
	if err != nil {
		d.logger.Warn("dictionary lookup failed", "word", word, "error", err)
		return false
	}
	return ok
}

// Contains reports whether word is in the dictionary.
func (d *Dict) Contains(ctx context.Context, word string) (bool, error) {
	word = norm.NFC.String(strings.TrimSpace(word))
	if word == "" {
		return false, nil
	}
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM words WHERE word = ?`, word).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query word: %w", err)
	}
	return true, nil
}

// Add inserts words. Existing words are kept.
func (d *Dict) Add(ctx context.Context, source string, words ...string) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add words: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO words (word, source) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("add words: prepare: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, w := range words {
		w = norm.NFC.String(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, w, source)
		if err != nil {
			return 0, fmt.Errorf("add word %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add words: commit: %w", err)
	}
	return added, nil
}

// Import reads one word per line from r. Blank lines and lines starting
// with '#' are skipped. It returns the number of new words.
func (d *Dict) Import(ctx context.Context, source string, r io.Reader) (int, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read word list: %w", err)
	}

	added, err := d.Add(ctx, source, words...)
	if err != nil {
		return 0, err
	}
	d.logger.Info("dictionary import", "source", source, "read", len(words), "added", added)
	return added, nil
}

// Count returns the number of words.
func (d *Dict) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
