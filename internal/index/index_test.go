package index

import (
	"testing"

	"github.com/starford/kanboard/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testBoard() models.Board {
	b := models.NewBoard()
	b[models.ColumnTodo] = []models.Card{
		{ID: "t1", Title: "Write specs", Description: "Outline requirements and acceptance criteria"},
		{ID: "t2", Title: "Set up project", Description: "Create repo, install deps and init linting"},
	}
	b[models.ColumnDone] = []models.Card{
		{ID: "d1", Title: "Create repo", Description: "Repository created and README added"},
	}
	return b
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cards`).Scan(&count); err != nil {
		t.Fatalf("cards table missing: %v", err)
	}
}

func TestOpen_FileDSN(t *testing.T) {
	path := t.TempDir() + "/index.db"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.Sync(testBoard()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestSyncAndCount(t *testing.T) {
	db := testDB(t)
	if err := db.Sync(testBoard()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestSyncReplacesPreviousContents(t *testing.T) {
	db := testDB(t)
	if err := db.Sync(testBoard()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	b := testBoard()
	b[models.ColumnInProgress] = []models.Card{b[models.ColumnTodo][0]}
	b[models.ColumnTodo] = b[models.ColumnTodo][1:]
	if err := db.Sync(b); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var col string
	var pos int
	if err := db.conn.QueryRow(`SELECT column_name, position FROM cards WHERE id = 't1'`).Scan(&col, &pos); err != nil {
		t.Fatalf("query t1: %v", err)
	}
	if col != "inprogress" || pos != 0 {
		t.Errorf("t1 at %s[%d], want inprogress[0]", col, pos)
	}
	if n, _ := db.Count(); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.Sync(testBoard())

	results, err := db.Search("linting", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "t2" {
		t.Fatalf("search results = %+v, want 1 hit for t2", results)
	}
	if results[0].Column != models.ColumnTodo {
		t.Errorf("column = %q, want todo", results[0].Column)
	}
}

func TestSearch_MatchesTitle(t *testing.T) {
	db := testDB(t)
	_ = db.Sync(testBoard())

	results, err := db.Search("repo", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := false
	for _, r := range results {
		if r.ID == "d1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected d1 in %+v", results)
	}
}

func TestSearch_NoHits(t *testing.T) {
	db := testDB(t)
	_ = db.Sync(testBoard())

	results, err := db.Search("kubernetes", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
}
