package sync_workshop

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// Источники запуска синхронизации (метка trigger в метриках)
const (
	TriggerHTTP     = "http"
	TriggerTask     = "task"
	TriggerSchedule = "schedule"
)

// ProgressFunc получает количество обработанных заявок и их общее количество.
// Может вызываться из нескольких горутин.
type ProgressFunc func(done, total int)

// Options настройки синхронизации, не меняющиеся от запроса к запросу
type Options struct {
	ProductGroup       string
	ExcludedProductIDs []int64
	ScenicTag          string
	Concurrency        int
	Location           *time.Location
}

// Request модель запроса синхронизации
type Request struct {
	Days     int
	Trigger  string
	Progress ProgressFunc // nil = без уведомлений

	// PruneStale удаляет снимки заявок, выпавших из окна.
	// Имеет смысл только для полного окна, иначе потеряется история дальних заявок.
	PruneStale bool
}

// Response результат синхронизации
type Response struct {
	SyncedAt      time.Time
	Days          int
	CatalogSize   int
	Opportunities []Opportunity // по возрастанию даты начала сборки
}

// Opportunity рассчитанная заявка и ее изменения с прошлой синхронизации
type Opportunity struct {
	Snapshot domain.Snapshot
	Changes  domain.ChangeSet
	Warnings []string
}
