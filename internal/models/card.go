// Package models defines the domain types for the Kanban board.
package models

// Column identifies one of the fixed board columns.
type Column string

// The three board columns, in display order.
const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inprogress"
	ColumnDone       Column = "done"
)

// Columns lists every column in display order.
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

var columnTitles = map[Column]string{
	ColumnTodo:       "To Do",
	ColumnInProgress: "In Progress",
	ColumnDone:       "Done",
}

// Valid reports whether c is one of the fixed columns.
func (c Column) Valid() bool {
	_, ok := columnTitles[c]
	return ok
}

// Title returns the display title of the column, or "" for unknown columns.
func (c Column) Title() string {
	return columnTitles[c]
}

// ParseColumn converts s into a Column. ok is false for unknown names.
func ParseColumn(s string) (Column, bool) {
	c := Column(s)
	return c, c.Valid()
}

// Card is a single task on the board. Its column is not a field: it is
// whichever column sequence currently holds it.
type Card struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// ColumnInfo describes a column for renderers.
type ColumnInfo struct {
	ID    Column `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}
