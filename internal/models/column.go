package models

import "time"

// Column is a named, ordered bucket of cards within a project
// (e.g. "Backlog", "In Progress", "Done").
//
// Position is a dense zero-based integer among the project's columns:
// the set of positions is always exactly {0..M-1}. Name is unique
// within a project.
type Column struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"projectId"`
	Name      string    `json:"name"`
	Position  int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}
