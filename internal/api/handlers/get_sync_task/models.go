package get_sync_task

import (
	"time"

	workshopHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_workshop_workload"
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

const msgTaskFailed = "синхронизация завершилась с ошибкой"

// TaskResponse HTTP response model
type TaskResponse struct {
	TaskID     string                            `json:"taskId"`
	Status     string                            `json:"status"`
	Days       int                               `json:"days"`
	Done       int                               `json:"done"`
	Total      int                               `json:"total"`
	CreatedAt  string                            `json:"createdAt"`
	FinishedAt *string                           `json:"finishedAt,omitempty"`
	Error      string                            `json:"error,omitempty"`
	Result     *workshopHandler.WorkshopResponse `json:"result,omitempty"`
}

// FromTask конвертирует задачу в HTTP response.
// Текст внутренней ошибки наружу не отдается.
func FromTask(t worker.Task) *TaskResponse {
	res := &TaskResponse{
		TaskID:    t.ID,
		Status:    string(t.Status),
		Days:      t.Days,
		Done:      t.Done,
		Total:     t.Total,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.FinishedAt != nil {
		f := t.FinishedAt.Format(time.RFC3339)
		res.FinishedAt = &f
	}
	if t.Err != nil {
		res.Error = msgTaskFailed
	}
	if t.Result != nil {
		res.Result = workshopHandler.FromUseCaseResponse(t.Result)
	}
	return res
}
