package start_sync_task

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDays        = "days должен быть от 1 до 365"
	msgShuttingDown       = "сервис останавливается, повторите позже"
)

type Handler struct {
	tasks       TaskStarter
	defaultDays int
	logger      Logger
}

func NewHandler(tasks TaskStarter, defaultDays int, logger Logger) *Handler {
	return &Handler{
		tasks:       tasks,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Handle POST /api/v1/workshop-workload/tasks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartTaskRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /workshop-workload/tasks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	days := h.defaultDays
	if req.Days != nil {
		days = *req.Days
	}
	if days <= 0 || days > domain.MaxHorizonDays {
		h.logger.Warn("POST /workshop-workload/tasks - Invalid days: %d", days)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	task, err := h.tasks.Start(days)
	if err != nil {
		if errors.Is(err, worker.ErrShuttingDown) {
			h.logger.Warn("POST /workshop-workload/tasks - Rejected during shutdown")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgShuttingDown)
			return
		}
		h.logger.Error("POST /workshop-workload/tasks - Failed to start task: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /workshop-workload/tasks - Task accepted: task_id=%s, days=%d", task.ID, days)
	w.Header().Set("Location", "/api/v1/workshop-workload/tasks/"+task.ID)
	handlers.RespondJSON(w, http.StatusAccepted, StartTaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}
