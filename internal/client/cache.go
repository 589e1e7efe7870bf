package client

import (
	"sync"

	"kanband/internal/models"
)

// boardState is one project's cached view: ordered columns plus the
// cards of each column in dense position order.
type boardState struct {
	columns []models.Column
	cards   map[int][]models.Card
}

func (b *boardState) clone() *boardState {
	cp := &boardState{
		columns: append([]models.Column(nil), b.columns...),
		cards:   make(map[int][]models.Card, len(b.cards)),
	}
	for columnID, cards := range b.cards {
		cp.cards[columnID] = append([]models.Card(nil), cards...)
	}
	return cp
}

// BoardCache mirrors server board state per project so the UI can
// render mutations immediately and reconcile with the server response
// afterwards. All methods are safe for concurrent use.
type BoardCache struct {
	mu     sync.Mutex
	boards map[int]*boardState
}

func NewBoardCache() *BoardCache {
	return &BoardCache{boards: make(map[int]*boardState)}
}

// SetBoard replaces the cached state of a project.
func (c *BoardCache) SetBoard(projectID int, columns []models.Column, cards map[int][]models.Card) {
	state := &boardState{
		columns: append([]models.Column(nil), columns...),
		cards:   make(map[int][]models.Card, len(cards)),
	}
	for columnID, list := range cards {
		state.cards[columnID] = append([]models.Card(nil), list...)
	}
	c.mu.Lock()
	c.boards[projectID] = state
	c.mu.Unlock()
}

// Invalidate drops a project's cached state.
func (c *BoardCache) Invalidate(projectID int) {
	c.mu.Lock()
	delete(c.boards, projectID)
	c.mu.Unlock()
}

// Columns returns the cached column list of a project in order.
func (c *BoardCache) Columns(projectID int) ([]models.Column, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.boards[projectID]
	if !ok {
		return nil, false
	}
	return append([]models.Column(nil), state.columns...), true
}

// Cards returns the cached cards of a column in position order.
func (c *BoardCache) Cards(projectID, columnID int) ([]models.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.boards[projectID]
	if !ok {
		return nil, false
	}
	cards, ok := state.cards[columnID]
	if !ok {
		return nil, false
	}
	return append([]models.Card(nil), cards...), true
}

// snapshot deep-copies a project's state for rollback. Returns nil if
// the project is not cached.
func (c *BoardCache) snapshot(projectID int) *boardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.boards[projectID]
	if !ok {
		return nil
	}
	return state.clone()
}

// restore puts a snapshot back, discarding the optimistic mutation.
func (c *BoardCache) restore(projectID int, snap *boardState) {
	if snap == nil {
		return
	}
	c.mu.Lock()
	c.boards[projectID] = snap
	c.mu.Unlock()
}

// applyMove performs the move locally the same way the server does:
// remove the card from its source column (closing the gap), clamp the
// requested slot to the destination's length, insert, and renumber
// both columns densely. Returns false when the card or destination
// column is not in this project's cache, in which case nothing
// changes.
func (c *BoardCache) applyMove(projectID, cardID, toColumnID, toPosition int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.boards[projectID]
	if !ok {
		return false
	}
	if _, ok := state.cards[toColumnID]; !ok {
		return false
	}

	fromColumnID := -1
	var card models.Card
	for columnID, cards := range state.cards {
		for i, candidate := range cards {
			if candidate.ID == cardID {
				fromColumnID = columnID
				card = candidate
				state.cards[columnID] = append(cards[:i], cards[i+1:]...)
				break
			}
		}
		if fromColumnID != -1 {
			break
		}
	}
	if fromColumnID == -1 {
		return false
	}

	dest := state.cards[toColumnID]
	if toPosition < 0 {
		toPosition = 0
	}
	if toPosition > len(dest) {
		toPosition = len(dest)
	}
	dest = append(dest, models.Card{})
	copy(dest[toPosition+1:], dest[toPosition:])
	card.ColumnID = toColumnID
	card.Position = toPosition
	dest[toPosition] = card
	state.cards[toColumnID] = dest

	renumber(state.cards[fromColumnID])
	renumber(state.cards[toColumnID])
	return true
}

// applyColumnOrder reorders the cached columns to match orderedIDs.
// The list must be exactly the cached column id set; otherwise nothing
// changes and false is returned.
func (c *BoardCache) applyColumnOrder(projectID int, orderedIDs []int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.boards[projectID]
	if !ok || len(orderedIDs) != len(state.columns) {
		return false
	}
	byID := make(map[int]models.Column, len(state.columns))
	for _, column := range state.columns {
		byID[column.ID] = column
	}
	reordered := make([]models.Column, 0, len(orderedIDs))
	for position, id := range orderedIDs {
		column, ok := byID[id]
		if !ok {
			return false
		}
		delete(byID, id)
		column.Position = position
		reordered = append(reordered, column)
	}
	state.columns = reordered
	return true
}

// mergeCard overwrites the cached copy of a card with the server's
// authoritative version, assuming column and position already match
// the optimistic state.
func (c *BoardCache) mergeCard(projectID int, card *models.Card) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.boards[projectID]
	if !ok {
		return
	}
	cards, ok := state.cards[card.ColumnID]
	if !ok {
		return
	}
	for i := range cards {
		if cards[i].ID == card.ID {
			cards[i] = *card
			return
		}
	}
}

// setColumns replaces just the column list, keeping cards.
func (c *BoardCache) setColumns(projectID int, columns []models.Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.boards[projectID]
	if !ok {
		return
	}
	state.columns = append([]models.Column(nil), columns...)
}

func renumber(cards []models.Card) {
	for i := range cards {
		cards[i].Position = i
	}
}
