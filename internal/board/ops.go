package board

import (
	"slices"

	"github.com/starford/kanboard/internal/models"
)

// Move returns a board with cardID taken out of from and placed at the front
// of to. The input board is never modified; untouched columns share their
// backing slices with it. ok is false, and b is returned as is, when the
// arguments are malformed, from equals to, or from does not hold cardID.
func Move(b models.Board, cardID string, from, to models.Column) (models.Board, bool) {
	if cardID == "" || !from.Valid() || !to.Valid() || from == to {
		return b, false
	}
	src := b[from]
	i := models.IndexOf(src, cardID)
	if i < 0 {
		return b, false
	}
	card := src[i]

	next := shallowCopy(b)
	next[from] = slices.Concat(src[:i:i], src[i+1:])
	next[to] = prepend(b[to], card)
	return next, true
}

// Prepend returns a board with card inserted at index 0 of col.
func Prepend(b models.Board, col models.Column, card models.Card) models.Board {
	next := shallowCopy(b)
	next[col] = prepend(b[col], card)
	return next
}

func prepend(cards []models.Card, card models.Card) []models.Card {
	out := make([]models.Card, 0, len(cards)+1)
	out = append(out, card)
	return append(out, cards...)
}

func shallowCopy(b models.Board) models.Board {
	next := make(models.Board, len(models.Columns))
	for _, c := range models.Columns {
		cards := b[c]
		if cards == nil {
			cards = []models.Card{}
		}
		next[c] = cards
	}
	return next
}
