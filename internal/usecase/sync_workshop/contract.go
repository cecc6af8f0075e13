package sync_workshop

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
)

// CRMClient интерфейс клиента Current RMS
type CRMClient interface {
	GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetOpportunityItems(ctx context.Context, opportunityID int64) ([]domain.LineItem, error)
}

// OpportunityService интерфейс сервиса предстоящих заявок
type OpportunityService interface {
	ListUpcoming(ctx context.Context, q opportunities.Query) (*opportunities.Upcoming, error)
}

// ProductRepository интерфейс репозитория каталога
type ProductRepository interface {
	ReplaceAll(ctx context.Context, products []domain.Product, refreshedAt time.Time) error
	List(ctx context.Context) ([]domain.Product, error)
}

// OverrideRepository интерфейс репозитория параметров сборки
type OverrideRepository interface {
	Get(ctx context.Context, opportunityID int64) (*domain.BuildOverride, error)
	GetMany(ctx context.Context, opportunityIDs []int64) (map[int64]*domain.BuildOverride, error)
	Upsert(ctx context.Context, o *domain.BuildOverride) (*domain.BuildOverride, error)
}

// ChangeTracker сравнивает снимок с предыдущим и сохраняет его
type ChangeTracker interface {
	Track(ctx context.Context, current *domain.Snapshot) (domain.ChangeSet, error)
	Prune(ctx context.Context, keepIDs []int64) (int64, error)
}

// TxManager выполняет функцию в транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики синхронизации
type Metrics interface {
	ObserveSync(trigger string, started time.Time, processed int, err error)
	IncCalculatorError(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
