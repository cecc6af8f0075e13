package get_workload

import (
	"context"

	getWorkload "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_workload"
)

type GetWorkloadUseCase interface {
	Execute(ctx context.Context, req *getWorkload.Request) (*getWorkload.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
