package api

import (
	"github.com/starford/kanboard/internal/boardservice"
	"github.com/starford/kanboard/internal/index"
	"github.com/starford/kanboard/internal/models"
)

// CreateCardRequest is the request body for adding a card.
type CreateCardRequest struct {
	Title       string `json:"title" example:"Write tests"`
	Description string `json:"description" example:"Cover the move rules"`
}

// UpdateDraftRequest carries form input changes. Omitted fields are kept.
type UpdateDraftRequest struct {
	Title       *string `json:"title,omitempty" example:"Write tests"`
	Description *string `json:"description,omitempty" example:""`
}

// MoveCardRequest is the request body for moving a card.
type MoveCardRequest struct {
	From string `json:"from" example:"todo"`
	To   string `json:"to" example:"inprogress"`
}

// MoveResponse reports whether a move or drop changed the board.
type MoveResponse struct {
	Moved bool            `json:"moved"`
	Board models.Snapshot `json:"board"`
}

// BoardResponse is the full board snapshot (aliased from the domain layer).
type BoardResponse = models.Snapshot

// CardDetail is a card with its column (aliased from the service layer).
type CardDetail = boardservice.CardDetail

// AddCardResponse is the outcome of an add-card submission (aliased from the service layer).
type AddCardResponse = boardservice.AddResult

// CardListResponse wraps the cards of one column.
type CardListResponse struct {
	Column models.Column `json:"column" example:"todo"`
	Cards  []models.Card `json:"cards"`
}

// ColumnListResponse wraps column metadata.
type ColumnListResponse struct {
	Columns []models.ColumnInfo `json:"columns"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}
