package start_sync_task

// StartTaskRequest HTTP request model, тело можно не передавать
type StartTaskRequest struct {
	Days *int `json:"days,omitempty"`
}

// StartTaskResponse HTTP response model
type StartTaskResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}
