package get_calendar

import (
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// Request модель запроса календаря
type Request struct {
	Days      int     // количество дней, начиная с сегодняшнего
	OwnerName *string // только заявки владельца, nil = все
}

// Response модель ответа: по одной ячейке на каждый день окна
type Response struct {
	Days []domain.CalendarDay
}
