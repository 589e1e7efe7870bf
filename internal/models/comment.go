package models

import "time"

// Comment is a user-authored note on a card.
type Comment struct {
	ID        int       `json:"id"`
	CardID    int       `json:"cardId"`
	AuthorID  int       `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
