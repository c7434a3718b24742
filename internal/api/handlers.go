package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kanboard/internal/boardservice"
	"github.com/starford/kanboard/internal/checksum"
	"github.com/starford/kanboard/internal/models"
)

// maxBody bounds request bodies; cards and drag payloads are small.
const maxBody = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *boardservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *boardservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetBoard handles GET /api/board.
//
//	@Summary		Get the full board: columns, draft and notice
//	@Tags			board
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"ETag from a previous response"
//	@Success		200	{object}	BoardResponse
//	@Success		304	"Not modified"
//	@Router			/board [get]
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Board(r.Context())
	etag, err := checksum.JSON(snap)
	if err != nil {
		slog.Error("board checksum failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("ETag", strconv.Quote(etag))
	if strings.Trim(r.Header.Get("If-None-Match"), `"`) == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListColumns handles GET /api/columns.
//
//	@Summary		List the board columns in display order
//	@Tags			board
//	@Produce		json
//	@Success		200	{object}	ColumnListResponse
//	@Router			/columns [get]
func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ColumnListResponse{Columns: h.svc.Columns(r.Context())})
}

// ListCards handles GET /api/columns/{column}/cards.
//
//	@Summary		List the cards of one column, in order
//	@Tags			board
//	@Produce		json
//	@Param			column	path		string	true	"Column"	Enums(todo, inprogress, done)
//	@Success		200		{object}	CardListResponse
//	@Failure		404		{object}	errResponse
//	@Router			/columns/{column}/cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	cards, err := h.svc.CardsIn(r.Context(), column)
	if err != nil {
		writeError(w, err, "list cards failed", slog.String("column", column))
		return
	}
	writeJSON(w, http.StatusOK, CardListResponse{Column: models.Column(column), Cards: cards})
}

// GetCard handles GET /api/cards/{id}.
//
//	@Summary		Get a single card and its column
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card id"
//	@Success		200	{object}	CardDetail
//	@Failure		404	{object}	errResponse
//	@Router			/cards/{id} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	card, err := h.svc.GetCard(r.Context(), id)
	if err != nil {
		writeError(w, err, "get card failed", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// CreateCard handles POST /api/cards.
//
// An empty title is not a request error: the response carries the
// validation notice and no card.
//
//	@Summary		Add a card to the todo column
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCardRequest	true	"Card to add"
//	@Success		201		{object}	AddCardResponse
//	@Success		200		{object}	AddCardResponse	"Title was empty"
//	@Failure		400		{object}	errResponse
//	@Router			/cards [post]
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeAddResult(w, h.svc.AddCard(r.Context(), req.Title, req.Description))
}

// UpdateDraft handles PUT /api/draft.
//
//	@Summary		Update the add-card form values
//	@Tags			draft
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateDraftRequest	true	"Changed fields"
//	@Success		200		{object}	models.Draft
//	@Failure		400		{object}	errResponse
//	@Router			/draft [put]
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.UpdateDraft(r.Context(), req.Title, req.Description))
}

// SubmitDraft handles POST /api/draft/submit.
//
//	@Summary		Submit the add-card form
//	@Tags			draft
//	@Produce		json
//	@Success		201	{object}	AddCardResponse
//	@Success		200	{object}	AddCardResponse	"Title was empty"
//	@Router			/draft/submit [post]
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	writeAddResult(w, h.svc.SubmitDraft(r.Context()))
}

// Drop handles POST /api/columns/{column}/drop.
//
// The body is the raw transfer payload attached at drag start. Malformed or
// stale payloads are discarded and reported as moved=false.
//
//	@Summary		Complete a drag-and-drop gesture over a column
//	@Tags			board
//	@Accept			json
//	@Produce		json
//	@Param			column	path		string	true	"Destination column"
//	@Param			body	body		string	true	"Transfer payload {itemId, fromCol}"
//	@Success		200		{object}	MoveResponse
//	@Router			/columns/{column}/drop [post]
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	// An unreadable body is discarded like any malformed payload.
	payload, _ := io.ReadAll(r.Body)
	moved := h.svc.Drop(r.Context(), payload, chi.URLParam(r, "column"))
	writeJSON(w, http.StatusOK, MoveResponse{Moved: moved, Board: h.svc.Board(r.Context())})
}

// MoveCard handles POST /api/cards/{id}/move.
//
//	@Summary		Move a card to the front of another column
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Card id"
//	@Param			body	body		MoveCardRequest	true	"Source and destination"
//	@Success		200		{object}	MoveResponse
//	@Failure		400		{object}	errResponse
//	@Router			/cards/{id}/move [post]
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req MoveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	moved := h.svc.MoveCard(r.Context(), chi.URLParam(r, "id"), req.From, req.To)
	writeJSON(w, http.StatusOK, MoveResponse{Moved: moved, Board: h.svc.Board(r.Context())})
}

// ClearNotice handles DELETE /api/notice.
//
//	@Summary		Dismiss the current notice
//	@Tags			notice
//	@Success		204	"Notice cleared"
//	@Router			/notice [delete]
func (h *Handler) ClearNotice(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearNotice(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across card titles and descriptions
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "search failed", slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func writeAddResult(w http.ResponseWriter, res boardservice.AddResult) {
	status := http.StatusOK
	if res.Card != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}
