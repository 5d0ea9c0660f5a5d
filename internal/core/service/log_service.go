package service

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// LogService reads the audit trail.
type LogService struct {
	logs ports.LogRepository
}

func NewLogService(logs ports.LogRepository) *LogService {
	return &LogService{logs: logs}
}

func (s *LogService) List(ctx context.Context) ([]*domain.LogEntry, error) {
	return s.logs.List(ctx)
}
