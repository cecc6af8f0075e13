package export_workshop

import (
	"context"

	exportWorkshop "github.com/m04kA/SMC-WorkloadService/internal/usecase/export_workshop"
)

type ExportWorkshopUseCase interface {
	Execute(ctx context.Context, req *exportWorkshop.Request) (*exportWorkshop.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
