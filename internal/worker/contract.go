package worker

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

// Syncer выполняет синхронизацию загрузки цеха
type Syncer interface {
	Execute(ctx context.Context, req *sync_workshop.Request) (*sync_workshop.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
