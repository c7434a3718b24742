package index

import (
	"fmt"

	"github.com/starford/kanboard/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string        `json:"id"`
	Column  models.Column `json:"column"`
	Title   string        `json:"title"`
	Snippet string        `json:"snippet"`
}

// Sync replaces the indexed cards with the contents of b in one transaction.
func (db *DB) Sync(b models.Board) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return fmt.Errorf("index: clear cards: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, column_name, position, title, description)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare card insert: %w", err)
	}
	defer stmt.Close()

	for _, col := range models.Columns {
		for pos, c := range b[col] {
			if _, err := stmt.Exec(c.ID, string(col), pos, c.Title, c.Description); err != nil {
				return fmt.Errorf("index: insert card %s: %w", c.ID, err)
			}
			if err := ftsInsert(tx, c); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: commit: %w", err)
	}
	return nil
}

// Count returns the number of indexed cards.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
