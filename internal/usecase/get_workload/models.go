package get_workload

import (
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// Request модель запроса загрузки склада
type Request struct {
	Days      int     // окно в днях от текущего момента
	OwnerName *string // только заявки владельца, nil = все
}

// Response модель ответа: сводка по весу и подтвержденные заявки окна
type Response struct {
	Summary domain.WorkloadSummary
}
