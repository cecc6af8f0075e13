package get_workload

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrCRMUnavailable возвращается, когда данные из Current RMS получить не удалось
	ErrCRMUnavailable = errors.New("current rms unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
