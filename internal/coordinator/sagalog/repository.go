package sagalog

import "context"

// Repository appends saga transitions. Entries are never updated.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
	// Pending returns the latest entry of every saga whose last transition
	// is not terminal, oldest first.
	Pending(ctx context.Context, limit int) ([]SagaLog, error)
}
