package get_sync_task

import (
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

type TaskGetter interface {
	Get(id string) (worker.Task, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
