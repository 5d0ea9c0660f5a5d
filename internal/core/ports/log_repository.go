package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// LogRepository is the append-only audit log store.
type LogRepository interface {
	Insert(ctx context.Context, entry *domain.LogEntry) error
	// List returns every entry, newest first.
	List(ctx context.Context) ([]*domain.LogEntry, error)
}

// AuditRecorder accepts audit entries without blocking the caller.
// Delivery is best effort.
type AuditRecorder interface {
	Record(entry domain.LogEntry)
}
