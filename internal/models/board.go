package models

// Board maps every column to its ordered card sequence.
type Board map[Column][]Card

// NewBoard returns a board with an empty sequence for every column.
func NewBoard() Board {
	b := make(Board, len(Columns))
	for _, c := range Columns {
		b[c] = []Card{}
	}
	return b
}

// Clone returns a deep copy of b. Missing columns come back as empty slices.
func (b Board) Clone() Board {
	out := make(Board, len(Columns))
	for _, c := range Columns {
		out[c] = append([]Card{}, b[c]...)
	}
	return out
}

// Locate returns the card with the given id and the column holding it.
func (b Board) Locate(id string) (Card, Column, bool) {
	for _, c := range Columns {
		if i := IndexOf(b[c], id); i >= 0 {
			return b[c][i], c, true
		}
	}
	return Card{}, "", false
}

// Len returns the number of cards across all columns.
func (b Board) Len() int {
	n := 0
	for _, c := range Columns {
		n += len(b[c])
	}
	return n
}

// IndexOf returns the position of id in cards, or -1.
func IndexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Draft holds the values of the add-card form before submission.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notice is a transient status message shown to the user.
type Notice struct {
	Message string `json:"message"`
}

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	Columns Board   `json:"columns"`
	Draft   Draft   `json:"draft"`
	Notice  *Notice `json:"notice"`
}

// Event kinds emitted by the board controller.
const (
	EventCardAdded     = "card.added"
	EventCardMoved     = "card.moved"
	EventNoticeSet     = "notice.set"
	EventNoticeCleared = "notice.cleared"
	EventDraftUpdated  = "draft.updated"
)

// Event describes a state transition of the board.
type Event struct {
	Kind    string `json:"kind"`
	CardID  string `json:"card_id,omitempty"`
	From    Column `json:"from,omitempty"`
	To      Column `json:"to,omitempty"`
	Message string `json:"message,omitempty"`
}
