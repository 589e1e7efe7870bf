package models

import "time"

// Attachment is file metadata for a card. StorageKey is the opaque name
// of the stored blob under the configured attachment directory.
type Attachment struct {
	ID         int       `json:"id"`
	CardID     int       `json:"cardId"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}
