package get_workload

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
)

// OpportunityService интерфейс сервиса предстоящих заявок
type OpportunityService interface {
	ListUpcoming(ctx context.Context, q opportunities.Query) (*opportunities.Upcoming, error)
}

// Metrics метрики загрузки склада
type Metrics interface {
	SetWorkloadWeight(group string, weight float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
