package database

import (
	"database/sql"
	"encoding/json"
)

// encodeIDList serializes an id list for storage in a TEXT column.
// A nil slice is stored as the empty list.
func encodeIDList(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeIDList parses a stored id list. Malformed or NULL data yields
// an empty slice rather than an error: a broken list should not make a
// card unreadable.
func decodeIDList(s sql.NullString) []int {
	if !s.Valid || s.String == "" {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal([]byte(s.String), &ids); err != nil {
		return []int{}
	}
	if ids == nil {
		return []int{}
	}
	return ids
}
