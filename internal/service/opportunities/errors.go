package opportunities

import "errors"

var (
	// ErrCRMUnavailable возвращается, когда Current RMS не ответил или отклонил запрос
	ErrCRMUnavailable = errors.New("current rms unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")
)
