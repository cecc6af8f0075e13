package buildschedule

import "errors"

var (
	// ErrOpportunityNotFound возвращается, когда заявка еще не синхронизирована и рассчитать ее нельзя
	ErrOpportunityNotFound = errors.New("opportunity not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrCrewSizeClamped предупреждение: размер бригады вне диапазона и был ограничен
	ErrCrewSizeClamped = errors.New("crew size clamped")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
