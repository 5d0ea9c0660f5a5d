package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// LogService exposes the audit trail to administrators.
type LogService interface {
	List(ctx context.Context) ([]*domain.LogEntry, error)
}
