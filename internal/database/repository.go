package database

import "context"

// HistoryWriter records sessions and captures as they happen.
type HistoryWriter interface {
	StartSession(ctx context.Context, sessionID, personKey, personName string) error
	RecordCapture(ctx context.Context, sessionID, personKey, filename string, offsetRatio float64) error
}

// HistoryReader answers questions about past captures.
type HistoryReader interface {
	CountByPerson(ctx context.Context, personKey string) (int, error)
	ListByPerson(ctx context.Context, personKey string, limit int) ([]CaptureRecord, error)
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)
	Stats(ctx context.Context) ([]PersonStats, error)
}

// History is the full capture history backend.
type History interface {
	HistoryWriter
	HistoryReader
}
