package store

import "time"

// Revision is one saved version of a document.
type Revision struct {
	ID      int64
	Key     string
	Size    int // bytes
	SavedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}
