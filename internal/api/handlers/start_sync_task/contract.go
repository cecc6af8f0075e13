package start_sync_task

import (
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

type TaskStarter interface {
	Start(days int) (worker.Task, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
