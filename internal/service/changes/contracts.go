package changes

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// SnapshotStore хранилище последнего увиденного снимка заявки
type SnapshotStore interface {
	Get(ctx context.Context, opportunityID int64) (*domain.Snapshot, error)
	Save(ctx context.Context, s *domain.Snapshot) error
	DeleteExcept(ctx context.Context, keepIDs []int64) (int64, error)
}

// Metrics счетчики изменений
type Metrics interface {
	IncChanged(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
