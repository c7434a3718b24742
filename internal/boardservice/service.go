// Package boardservice coordinates the board controller and its search projection.
package boardservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/kanboard/internal/apperr"
	"github.com/starford/kanboard/internal/board"
	"github.com/starford/kanboard/internal/index"
	"github.com/starford/kanboard/internal/models"
	"github.com/starford/kanboard/internal/parser"
)

// CardDetail is a card together with the column that holds it.
type CardDetail struct {
	models.Card
	Column models.Column `json:"column"`
}

// AddResult is the outcome of an add-card submission. Card is nil when the
// title was empty; Notice carries the message shown either way.
type AddResult struct {
	Card   *models.Card   `json:"card"`
	Notice *models.Notice `json:"notice"`
}

// Service coordinates controller and index operations.
type Service struct {
	ctrl   *board.Controller
	idx    index.CardIndex
	logger *slog.Logger

	// syncMu serializes snapshot+Sync so the last sync to run always
	// carries the newest board.
	syncMu sync.Mutex
}

// NewService creates a new board service and indexes the current board.
func NewService(ctrl *board.Controller, idx index.CardIndex, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{ctrl: ctrl, idx: idx, logger: logger}
	if err := s.idx.Sync(ctrl.Snapshot().Columns); err != nil {
		return nil, err
	}
	return s, nil
}

// Board returns the full board snapshot.
func (s *Service) Board(_ context.Context) models.Snapshot {
	return s.ctrl.Snapshot()
}

// Columns returns column metadata in display order.
func (s *Service) Columns(_ context.Context) []models.ColumnInfo {
	snap := s.ctrl.Snapshot()
	out := make([]models.ColumnInfo, len(models.Columns))
	for i, c := range models.Columns {
		out[i] = models.ColumnInfo{ID: c, Title: c.Title(), Count: len(snap.Columns[c])}
	}
	return out
}

// CardsIn returns the ordered cards of the named column.
func (s *Service) CardsIn(_ context.Context, column string) ([]models.Card, error) {
	col, ok := models.ParseColumn(column)
	if !ok {
		return nil, apperr.ErrInvalidColumn
	}
	return s.ctrl.CardsIn(col), nil
}

// GetCard returns the card with the given id.
func (s *Service) GetCard(_ context.Context, id string) (*CardDetail, error) {
	card, col, ok := s.ctrl.Locate(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &CardDetail{Card: card, Column: col}, nil
}

// AddCard creates a todo card from the given form values.
func (s *Service) AddCard(_ context.Context, title, description string) AddResult {
	card, ok := s.ctrl.AddCard(title, description)
	return s.addResult(card, ok)
}

// SubmitDraft creates a todo card from the current draft.
func (s *Service) SubmitDraft(_ context.Context) AddResult {
	card, ok := s.ctrl.SubmitDraft()
	return s.addResult(card, ok)
}

// addResult reports the notice set by this submission, even if a later one
// has replaced it on the board since.
func (s *Service) addResult(card models.Card, ok bool) AddResult {
	if !ok {
		return AddResult{Notice: &models.Notice{Message: board.MsgTitleRequired}}
	}
	s.reindex()
	return AddResult{
		Card:   &card,
		Notice: &models.Notice{Message: board.SuccessMessage(card.Title)},
	}
}

// UpdateDraft applies form input changes.
func (s *Service) UpdateDraft(_ context.Context, title, description *string) models.Draft {
	return s.ctrl.UpdateDraft(title, description)
}

// MoveCard moves a card between columns. Column names that are not board
// columns make the move a no-op, like any other discarded drop.
func (s *Service) MoveCard(_ context.Context, id, from, to string) bool {
	if !s.ctrl.MoveCard(id, models.Column(from), models.Column(to)) {
		return false
	}
	s.reindex()
	return true
}

// Drop handles a completed drag gesture: payload is the transfer record
// attached at drag start and to is the column the card was released over.
// Malformed payloads are discarded.
func (s *Service) Drop(ctx context.Context, payload []byte, to string) bool {
	tr, err := parser.ParseTransfer(payload)
	if err != nil {
		s.logger.Debug("drop discarded", slog.String("to", to), slog.String("error", err.Error()))
		return false
	}
	return s.MoveCard(ctx, tr.CardID, string(tr.From), to)
}

// ClearNotice dismisses the current notice.
func (s *Service) ClearNotice(_ context.Context) {
	s.ctrl.ClearNotice()
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	results, err := s.idx.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(results), nil
}

// reindex rebuilds the search projection. Failures only degrade search.
func (s *Service) reindex() {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if err := s.idx.Sync(s.ctrl.Snapshot().Columns); err != nil {
		s.logger.Warn("reindex failed", slog.String("error", err.Error()))
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
