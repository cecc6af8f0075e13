package get_workshop_workload

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	syncWorkshop "github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

// WorkshopResponse HTTP response model, также используется в статусе задачи
type WorkshopResponse struct {
	SyncedAt      string                `json:"syncedAt"`
	Days          int                   `json:"days"`
	CatalogSize   int                   `json:"catalogSize"`
	Opportunities []OpportunityResponse `json:"opportunities"`
}

// OpportunityResponse рассчитанная заявка
type OpportunityResponse struct {
	ID                int64                   `json:"id"`
	Number            string                  `json:"number,omitempty"`
	Name              string                  `json:"name"`
	ClientName        string                  `json:"clientName,omitempty"`
	Status            int                     `json:"status"`
	HireType          string                  `json:"hireType"`
	DateOut           string                  `json:"dateOut"`
	TimeOut           string                  `json:"timeOut,omitempty"`
	Items             []domain.AggregatedItem `json:"items"`
	TotalHours        float64                 `json:"totalHours"`
	CrewSize          int                     `json:"crewSize"`
	IncludeWeekends   bool                    `json:"includeWeekends"`
	PlannedFinishDate *string                 `json:"plannedFinishDate,omitempty"`
	Built             bool                    `json:"built"`
	WorkingDays       float64                 `json:"workingDays"`
	StartBuildDate    string                  `json:"startBuildDate"`
	Changes           domain.ChangeSet        `json:"changes"`
	Warnings          []string                `json:"warnings,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *syncWorkshop.Response) *WorkshopResponse {
	res := &WorkshopResponse{
		SyncedAt:      resp.SyncedAt.Format(time.RFC3339),
		Days:          resp.Days,
		CatalogSize:   resp.CatalogSize,
		Opportunities: make([]OpportunityResponse, 0, len(resp.Opportunities)),
	}

	for _, o := range resp.Opportunities {
		s := o.Snapshot
		item := OpportunityResponse{
			ID:              s.OpportunityID,
			Number:          s.Number,
			Name:            s.Name,
			ClientName:      s.ClientName,
			Status:          s.Status,
			HireType:        string(s.HireType),
			DateOut:         s.DateOut.String(),
			TimeOut:         s.TimeOut.String(),
			Items:           s.Items,
			TotalHours:      s.TotalHours,
			CrewSize:        s.CrewSize,
			IncludeWeekends: s.IncludeWeekends,
			Built:           s.Built,
			WorkingDays:     s.WorkingDays,
			StartBuildDate:  s.StartBuildDate.String(),
			Changes:         o.Changes,
			Warnings:        o.Warnings,
		}
		if item.Items == nil {
			item.Items = []domain.AggregatedItem{}
		}
		if s.PlannedFinishDate != nil {
			d := s.PlannedFinishDate.String()
			item.PlannedFinishDate = &d
		}
		res.Opportunities = append(res.Opportunities, item)
	}
	return res
}
