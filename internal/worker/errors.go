package worker

import "errors"

var (
	// ErrTaskNotFound возвращается, если задачи нет или ее результат уже удален по TTL
	ErrTaskNotFound = errors.New("worker: task not found")

	// ErrShuttingDown возвращается при попытке запустить задачу во время остановки
	ErrShuttingDown = errors.New("worker: shutting down")
)
