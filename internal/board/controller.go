// Package board implements the Kanban board controller: the single owner of
// the column sequences, the add-card draft, and the transient notice.
package board

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/starford/kanboard/internal/models"
)

// Notice texts and defaults.
const (
	MsgTitleRequired       = "Please enter a title"
	PlaceholderDescription = "No description"

	DefaultValidationTTL = 2 * time.Second
	DefaultSuccessTTL    = 3 * time.Second
)

// SuccessMessage returns the notice shown after a card titled title was added.
func SuccessMessage(title string) string {
	return `Task "` + title + `" added`
}

// Observer receives every state transition. It runs on the controller loop
// and must not block or call back into the controller.
type Observer func(models.Event)

// Option configures a Controller.
type Option func(*Controller)

// WithSeed sets the initial board. It is copied.
func WithSeed(b models.Board) Option {
	return func(c *Controller) {
		c.seed = b
	}
}

// WithClock replaces the clock used to schedule notice expiry.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithIDFunc replaces the card id generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// WithNoticeTTL sets how long validation and success notices stay visible.
// Non-positive values keep the defaults.
func WithNoticeTTL(validation, success time.Duration) Option {
	return func(c *Controller) {
		if validation > 0 {
			c.validationTTL = validation
		}
		if success > 0 {
			c.successTTL = success
		}
	}
}

// WithObserver registers fn to receive board events.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// WithLogger sets the logger used for discarded operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// state is owned by the controller loop and never escapes it. Column slices
// are replaced, never modified in place, so they can be handed out as is.
type state struct {
	board  models.Board
	draft  models.Draft
	notice *models.Notice
	timer  Timer
	gen    uint64
}

// Controller owns the board state.
//
// Concurrency model: a single loop goroutine owns the state. Public methods
// post a command to the loop and wait for it to run, and notice timers post
// their expiry to the same loop, so every read and write happens on one
// logical thread and no mutexes are required.
type Controller struct {
	seed          models.Board
	clock         Clock
	newID         func() string
	validationTTL time.Duration
	successTTL    time.Duration
	observers     []Observer
	logger        *slog.Logger

	cmdCh   chan func(*state)
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// New validates the seed and starts a controller.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		clock:         systemClock{},
		newID:         newCardID,
		validationTTL: DefaultValidationTTL,
		successTTL:    DefaultSuccessTTL,
		logger:        slog.Default(),
		cmdCh:         make(chan func(*state)),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := ValidateSeed(c.seed); err != nil {
		return nil, err
	}

	st := &state{board: c.seed.Clone()}
	go c.run(st)
	return c, nil
}

func newCardID() string {
	return "t-" + uuid.Must(uuid.NewV7()).String()
}

func (c *Controller) run(st *state) {
	defer close(c.stopped)

	for {
		select {
		case <-c.stopCh:
			if st.timer != nil {
				st.timer.Stop()
			}
			return
		case cmd := <-c.cmdCh:
			cmd(st)
		}
	}
}

// Close stops the loop and any pending notice timer. Calls made after Close
// are no-ops returning zero values.
func (c *Controller) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	<-c.stopped
}

// do runs fn on the loop and waits for it. It reports false once closed.
func (c *Controller) do(fn func(*state)) bool {
	if c.closed.Load() {
		return false
	}
	done := make(chan struct{})
	select {
	case c.cmdCh <- func(st *state) {
		defer close(done)
		fn(st)
	}:
	case <-c.stopped:
		return false
	}
	<-done
	return true
}

// post queues fn on the loop without waiting for it to run.
func (c *Controller) post(fn func(*state)) {
	if c.closed.Load() {
		return
	}
	select {
	case c.cmdCh <- fn:
	case <-c.stopped:
	}
}

func (c *Controller) emit(ev models.Event) {
	for _, fn := range c.observers {
		fn(ev)
	}
}

// Snapshot returns a copy of the whole board state.
func (c *Controller) Snapshot() models.Snapshot {
	snap := models.Snapshot{Columns: models.NewBoard()}
	c.do(func(st *state) {
		snap.Columns = shallowCopy(st.board)
		snap.Draft = st.draft
		if st.notice != nil {
			n := *st.notice
			snap.Notice = &n
		}
	})
	return snap
}

// CardsIn returns the ordered cards of col. Unknown columns yield nil.
func (c *Controller) CardsIn(col models.Column) []models.Card {
	if !col.Valid() {
		return nil
	}
	cards := []models.Card{}
	c.do(func(st *state) {
		cards = append(cards, st.board[col]...)
	})
	return cards
}

// Locate returns the card with the given id and the column that holds it.
func (c *Controller) Locate(cardID string) (models.Card, models.Column, bool) {
	var (
		card  models.Card
		col   models.Column
		found bool
	)
	c.do(func(st *state) {
		card, col, found = st.board.Locate(cardID)
	})
	return card, col, found
}

// Draft returns the current add-card form values.
func (c *Controller) Draft() models.Draft {
	var d models.Draft
	c.do(func(st *state) {
		d = st.draft
	})
	return d
}

// Notice returns the notice currently shown, if any.
func (c *Controller) Notice() (models.Notice, bool) {
	var (
		n  models.Notice
		ok bool
	)
	c.do(func(st *state) {
		if st.notice != nil {
			n, ok = *st.notice, true
		}
	})
	return n, ok
}

// UpdateDraft applies form input changes. Nil fields are left as they are.
func (c *Controller) UpdateDraft(title, description *string) models.Draft {
	var d models.Draft
	c.do(func(st *state) {
		next := st.draft
		if title != nil {
			next.Title = *title
		}
		if description != nil {
			next.Description = *description
		}
		if next != st.draft {
			st.draft = next
			c.emit(models.Event{Kind: models.EventDraftUpdated})
		}
		d = st.draft
	})
	return d
}

// MoveCard moves cardID from its claimed column to the front of to.
// Malformed arguments, same-column drops and ids not present in from are
// discarded and leave the state untouched. It reports whether the card moved.
func (c *Controller) MoveCard(cardID string, from, to models.Column) bool {
	moved := false
	c.do(func(st *state) {
		next, ok := Move(st.board, cardID, from, to)
		if !ok {
			c.logger.Debug("move discarded",
				slog.String("card_id", cardID),
				slog.String("from", string(from)),
				slog.String("to", string(to)))
			return
		}
		st.board = next
		moved = true
		c.emit(models.Event{Kind: models.EventCardMoved, CardID: cardID, From: from, To: to})
	})
	return moved
}

// AddCard creates a card in the todo column from the given form values.
// An empty title only sets the validation notice; the board and the draft
// stay as they are. ok reports whether a card was created.
func (c *Controller) AddCard(title, description string) (card models.Card, ok bool) {
	c.do(func(st *state) {
		card, ok = c.addCard(st, title, description)
	})
	return card, ok
}

// SubmitDraft runs AddCard with the current draft values.
func (c *Controller) SubmitDraft() (card models.Card, ok bool) {
	c.do(func(st *state) {
		card, ok = c.addCard(st, st.draft.Title, st.draft.Description)
	})
	return card, ok
}

// ClearNotice hides the current notice and cancels its expiry timer.
func (c *Controller) ClearNotice() {
	c.do(c.clearNotice)
}

func (c *Controller) addCard(st *state, title, description string) (models.Card, bool) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		c.setNotice(st, MsgTitleRequired, c.validationTTL)
		return models.Card{}, false
	}
	if description == "" {
		description = PlaceholderDescription
	}

	card := models.Card{
		ID:          c.uniqueID(st.board),
		Title:       title,
		Description: description,
	}
	st.board = Prepend(st.board, models.ColumnTodo, card)
	c.emit(models.Event{Kind: models.EventCardAdded, CardID: card.ID, To: models.ColumnTodo})

	if st.draft != (models.Draft{}) {
		st.draft = models.Draft{}
		c.emit(models.Event{Kind: models.EventDraftUpdated})
	}

	c.setNotice(st, SuccessMessage(title), c.successTTL)
	return card, true
}

// uniqueID draws ids until one is not on the board. Repeated values get a
// numeric suffix so a degenerate generator cannot stall the loop.
func (c *Controller) uniqueID(b models.Board) string {
	for i := 0; ; i++ {
		id := c.newID()
		if i > 0 {
			id = fmt.Sprintf("%s-%d", id, i)
		}
		if id == "" {
			continue
		}
		if _, _, taken := b.Locate(id); !taken {
			return id
		}
	}
}

// setNotice replaces the notice and its timer. The generation captured by
// the timer callback makes a fire that was already in flight a no-op.
func (c *Controller) setNotice(st *state, msg string, ttl time.Duration) {
	if st.timer != nil {
		st.timer.Stop()
	}
	st.gen++
	gen := st.gen
	st.notice = &models.Notice{Message: msg}
	st.timer = c.clock.AfterFunc(ttl, func() {
		c.post(func(st *state) {
			c.expireNotice(st, gen)
		})
	})
	c.emit(models.Event{Kind: models.EventNoticeSet, Message: msg})
}

func (c *Controller) expireNotice(st *state, gen uint64) {
	if gen != st.gen {
		c.logger.Debug("stale notice timer ignored")
		return
	}
	c.clearNotice(st)
}

func (c *Controller) clearNotice(st *state) {
	if st.notice == nil {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.gen++
	st.notice = nil
	c.emit(models.Event{Kind: models.EventNoticeCleared})
}
