package snapshot

import (
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
