//go:build sqlite_fts5

package index

import (
	"testing"

	"github.com/starford/kanboard/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cards_fts`).Scan(&count); err != nil {
		t.Fatalf("cards_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	b := models.NewBoard()
	b[models.ColumnTodo] = []models.Card{{ID: "f1", Title: "FTS card", Description: "Kanboard provides powerful full-text search."}}
	if err := db.Sync(b); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "f1" || results[0].Column != models.ColumnTodo {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_SyncReplacesContent(t *testing.T) {
	db := testDB(t)
	b := models.NewBoard()
	b[models.ColumnTodo] = []models.Card{{ID: "e1", Title: "Old", Description: "original text"}}
	_ = db.Sync(b)
	b[models.ColumnTodo] = []models.Card{{ID: "e2", Title: "New", Description: "replacement text"}}
	_ = db.Sync(b)

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
