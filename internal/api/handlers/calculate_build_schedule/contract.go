package calculate_build_schedule

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type BuildScheduleService interface {
	Calculate(ctx context.Context, req *models.CalculateRequest) *models.CalculateResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
