// Package api implements the Kanboard REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kanboard/internal/boardservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *boardservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Board.
	r.Get("/board", h.GetBoard)
	r.Get("/columns", h.ListColumns)
	r.Get("/columns/{column}/cards", h.ListCards)
	r.Post("/columns/{column}/drop", h.Drop)

	// Cards.
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Post("/cards/{id}/move", h.MoveCard)

	// Draft and notice.
	r.Put("/draft", h.UpdateDraft)
	r.Post("/draft/submit", h.SubmitDraft)
	r.Delete("/notice", h.ClearNotice)

	// Search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
