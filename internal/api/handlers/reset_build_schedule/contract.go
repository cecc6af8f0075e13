package reset_build_schedule

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type BuildScheduleService interface {
	Reset(ctx context.Context, opportunityID, userID int64) (*models.BuildScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
