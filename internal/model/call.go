package model

import "time"

// CallRecord is one journaled gateway call. It never holds credentials or
// file payloads.
type CallRecord struct {
	ID         string    `db:"id" json:"id"` // ULID
	Operation  string    `db:"operation" json:"operation"`
	Mode       string    `db:"mode" json:"mode"`
	Endpoint   string    `db:"endpoint" json:"endpoint"`
	Error      int       `db:"error" json:"error"`
	Kind       string    `db:"kind" json:"kind,omitempty"`
	Message    string    `db:"message" json:"message,omitempty"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CallFilter narrows journal reports.
type CallFilter struct {
	Operation  string
	FailedOnly bool
	Limit      int
	Offset     int
}
