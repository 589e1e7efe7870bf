package models

import "time"

// Card is the atomic unit of work tracked on the board.
//
// Position is dense zero-based among the non-deleted cards of its
// column. ProjectID is denormalized for query convenience and must
// always equal the owning column's project; the service layer
// maintains that invariant when changing ColumnID.
//
// AssignedToIDs, TagIDs and LinkedIDs are stored as JSON id lists, not
// relational joins. ParentID allows one level of parent reference.
type Card struct {
	ID            int        `json:"id"`
	ProjectID     int        `json:"projectId"`
	ColumnID      int        `json:"columnId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Position      int        `json:"order"`
	OwnerID       int        `json:"ownerId"`
	AssignedToIDs []int      `json:"assignedToIds"`
	TagIDs        []int      `json:"tags"`
	LinkedIDs     []int      `json:"linkedIds"`
	ParentID      *int       `json:"parentId,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	IsDeleted     bool       `json:"isDeleted,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CardMove is one entry in a card's movement history, backing the
// timeline view.
type CardMove struct {
	ID           int       `json:"id"`
	CardID       int       `json:"cardId"`
	FromColumnID int       `json:"fromColumnId"`
	ToColumnID   int       `json:"toColumnId"`
	FromPosition int       `json:"fromOrder"`
	ToPosition   int       `json:"toOrder"`
	MovedBy      int       `json:"movedBy"`
	MovedAt      time.Time `json:"movedAt"`
}
