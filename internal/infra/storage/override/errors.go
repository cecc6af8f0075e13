package override

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда для заявки не сохранено ручных параметров
	ErrOverrideNotFound = errors.New("override.repository: override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("override.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("override.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("override.repository: failed to scan row")
)
