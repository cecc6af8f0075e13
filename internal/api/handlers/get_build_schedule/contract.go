package get_build_schedule

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type BuildScheduleService interface {
	Get(ctx context.Context, opportunityID int64) (*models.BuildScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
