package export_workshop

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// SnapshotRepository интерфейс репозитория снимков
type SnapshotRepository interface {
	ListByDateOut(ctx context.Context, from, until types.Date) ([]*domain.Snapshot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
