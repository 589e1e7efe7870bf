package models

// Tag is a colored label scoped to a project and referenced by cards.
type Tag struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"projectId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}
