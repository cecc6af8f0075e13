package buildschedule

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// OverrideRepository интерфейс репозитория ручных параметров сборки
type OverrideRepository interface {
	Get(ctx context.Context, opportunityID int64) (*domain.BuildOverride, error)
	Upsert(ctx context.Context, o *domain.BuildOverride) (*domain.BuildOverride, error)
	Delete(ctx context.Context, opportunityID int64) error
}

// SnapshotRepository интерфейс репозитория снимков заявок
type SnapshotRepository interface {
	Get(ctx context.Context, opportunityID int64) (*domain.Snapshot, error)
	Save(ctx context.Context, s *domain.Snapshot) error
}

// TxManager выполняет функцию в транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет ошибок входных данных калькулятора
type Metrics interface {
	IncCalculatorError(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
