package board

import (
	"fmt"
	"strings"

	"github.com/starford/kanboard/internal/models"
)

// DefaultSeed returns the board the application starts with when no seed is configured.
func DefaultSeed() models.Board {
	return models.Board{
		models.ColumnTodo: {
			{ID: "t1", Title: "Write specs", Description: "Outline requirements and acceptance criteria"},
			{ID: "t2", Title: "Set up project", Description: "Create repo, install deps and init linting"},
		},
		models.ColumnInProgress: {
			{ID: "p1", Title: "Implement auth", Description: "Add login/logout and token handling"},
		},
		models.ColumnDone: {
			{ID: "d1", Title: "Create repo", Description: "Repository created and README added"},
		},
	}
}

// ValidateSeed checks that b only uses known columns, that every card has an
// id and a title, and that no id appears twice.
func ValidateSeed(b models.Board) error {
	seen := make(map[string]models.Column, b.Len())
	for col, cards := range b {
		if !col.Valid() {
			return fmt.Errorf("board: unknown column %q", col)
		}
		for i, c := range cards {
			if c.ID == "" {
				return fmt.Errorf("board: %s[%d]: id is required", col, i)
			}
			if strings.TrimSpace(c.Title) == "" {
				return fmt.Errorf("board: %s[%d]: title is required", col, i)
			}
			if prev, ok := seen[c.ID]; ok {
				return fmt.Errorf("board: duplicate card id %q in %s and %s", c.ID, prev, col)
			}
			seen[c.ID] = col
		}
	}
	return nil
}
