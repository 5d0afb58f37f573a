// Package database defines the capture history model. The PostgreSQL backend
// lives in the postgres subpackage; history is optional and the rest of the
// application works without it.
package database

import "time"

// SessionRecord is one identify-to-quota run for a person.
type SessionRecord struct {
	ID        string    `json:"id"`
	PersonKey string    `json:"person_key"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at"`
}

// CaptureRecord is one accepted photo.
type CaptureRecord struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	PersonKey   string    `json:"person_key"`
	Filename    string    `json:"filename"`
	OffsetRatio float64   `json:"offset_ratio"`
	CapturedAt  time.Time `json:"captured_at"`
}

// PersonStats aggregates capture history per person.
type PersonStats struct {
	PersonKey string    `json:"person_key"`
	Captures  int       `json:"captures"`
	Sessions  int       `json:"sessions"`
	LastSeen  time.Time `json:"last_seen"`
}
