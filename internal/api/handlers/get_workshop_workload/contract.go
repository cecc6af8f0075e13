package get_workshop_workload

import (
	"context"

	syncWorkshop "github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

type SyncWorkshopUseCase interface {
	Execute(ctx context.Context, req *syncWorkshop.Request) (*syncWorkshop.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
