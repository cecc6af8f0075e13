package update_build_schedule

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type BuildScheduleService interface {
	Update(ctx context.Context, req *models.UpdateRequest) (*models.BuildScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
