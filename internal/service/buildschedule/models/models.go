package models

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// Request модели

// UpdateRequest запрос на изменение параметров сборки.
// Все поля опциональны - обновляются только переданные значения.
type UpdateRequest struct {
	OpportunityID          int64       `json:"-"`
	UserID                 int64       `json:"-"`
	CrewSize               *int        `json:"crewSize,omitempty"` // вне [1, 20] будет ограничен
	IncludeWeekends        *bool       `json:"includeWeekends,omitempty"`
	PlannedFinishDate      *types.Date `json:"plannedFinishDate,omitempty"`
	ClearPlannedFinishDate bool        `json:"clearPlannedFinishDate,omitempty"` // вернуть расчет от даты выезда
	Built                  *bool       `json:"built,omitempty"`
}

// IsEmpty возвращает true, если ни одно поле не передано
func (r *UpdateRequest) IsEmpty() bool {
	return r.CrewSize == nil && r.IncludeWeekends == nil && r.PlannedFinishDate == nil &&
		!r.ClearPlannedFinishDate && r.Built == nil
}

// ApplyTo применяет изменения к параметрам сборки
func (r *UpdateRequest) ApplyTo(o *domain.BuildOverride) {
	if r.CrewSize != nil {
		o.CrewSize = domain.ClampCrewSize(*r.CrewSize)
	}
	if r.IncludeWeekends != nil {
		o.IncludeWeekends = *r.IncludeWeekends
	}
	if r.ClearPlannedFinishDate {
		o.PlannedFinishDate = nil
	} else if r.PlannedFinishDate != nil && !r.PlannedFinishDate.IsZero() {
		d := *r.PlannedFinishDate
		o.PlannedFinishDate = &d
	}
	if r.Built != nil {
		o.Built = *r.Built
	}
	userID := r.UserID
	o.UpdatedBy = &userID
}

// CalculateRequest запрос на расчет без сохранения
type CalculateRequest struct {
	Items             []domain.LineItem `json:"items"`
	Catalog           []string          `json:"catalog"`
	DateOut           string            `json:"dateOut"`
	PlannedFinishDate *string           `json:"plannedFinishDate,omitempty"`
	CrewSize          int               `json:"crewSize"`
	IncludeWeekends   bool              `json:"includeWeekends"`
}

// Response модели

// HistoryResponse значения, замененные последним изменением
type HistoryResponse struct {
	CrewSize          *int              `json:"crewSize,omitempty"`
	IncludeWeekends   *bool             `json:"includeWeekends,omitempty"`
	PlannedFinishDate *types.Date       `json:"plannedFinishDate,omitempty"`
	Built             *bool             `json:"built,omitempty"`
	WorkingDays       *float64          `json:"workingDays,omitempty"`
	StartBuildDate    *types.Date       `json:"startBuildDate,omitempty"`
	DateOut           *types.Date       `json:"dateOut,omitempty"`
	TimeOut           *types.TimeString `json:"timeOut,omitempty"`
	UpdatedAt         *time.Time        `json:"updatedAt,omitempty"`
}

// BuildScheduleResponse параметры сборки и рассчитанные значения заявки
type BuildScheduleResponse struct {
	OpportunityID     int64                   `json:"opportunityId"`
	Name              string                  `json:"name,omitempty"`
	DateOut           types.Date              `json:"dateOut"`
	TimeOut           types.TimeString        `json:"timeOut,omitempty"`
	Items             []domain.AggregatedItem `json:"items"`
	TotalHours        float64                 `json:"totalHours"`
	CrewSize          int                     `json:"crewSize"`
	IncludeWeekends   bool                    `json:"includeWeekends"`
	PlannedFinishDate *types.Date             `json:"plannedFinishDate,omitempty"`
	Built             bool                    `json:"built"`
	WorkingDays       float64                 `json:"workingDays"`
	StartBuildDate    types.Date              `json:"startBuildDate"`
	Previous          HistoryResponse         `json:"previous"`
	UpdatedAt         *time.Time              `json:"updatedAt,omitempty"`
	Warnings          []string                `json:"warnings,omitempty"`
}

// CalculateResponse результат расчета.
// При ошибках входных данных числовые поля нулевые, а Errors содержит причины.
type CalculateResponse struct {
	Items          []domain.AggregatedItem `json:"items"`
	TotalHours     float64                 `json:"totalHours"`
	WorkingDays    float64                 `json:"workingDays"`
	StartBuildDate string                  `json:"startBuildDate"`
	Errors         []string                `json:"errors,omitempty"`
}

// Методы конвертации

// FromDomain собирает ответ из снимка (может быть nil) и параметров сборки
func FromDomain(s *domain.Snapshot, o *domain.BuildOverride) *BuildScheduleResponse {
	resp := &BuildScheduleResponse{
		OpportunityID:     o.OpportunityID,
		DateOut:           o.DateOut,
		TimeOut:           o.TimeOut,
		Items:             []domain.AggregatedItem{},
		CrewSize:          o.CrewSize,
		IncludeWeekends:   o.IncludeWeekends,
		PlannedFinishDate: o.PlannedFinishDate,
		Built:             o.Built,
		WorkingDays:       o.WorkingDays,
		StartBuildDate:    o.StartBuildDate,
		Previous: HistoryResponse{
			CrewSize:          o.Previous.CrewSize,
			IncludeWeekends:   o.Previous.IncludeWeekends,
			PlannedFinishDate: o.Previous.PlannedFinishDate,
			Built:             o.Previous.Built,
			WorkingDays:       o.Previous.WorkingDays,
			StartBuildDate:    o.Previous.StartBuildDate,
			DateOut:           o.Previous.DateOut,
			TimeOut:           o.Previous.TimeOut,
			UpdatedAt:         o.PreviouslyUpdatedAt,
		},
	}

	if !o.UpdatedAt.IsZero() {
		updatedAt := o.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	if s != nil {
		resp.Name = s.Name
		resp.TotalHours = s.TotalHours
		if s.Items != nil {
			resp.Items = s.Items
		}
		// снимок свежее, если параметры еще не сохранялись
		if o.DateOut.IsZero() {
			resp.DateOut = s.DateOut
			resp.TimeOut = s.TimeOut
			resp.WorkingDays = s.WorkingDays
			resp.StartBuildDate = s.StartBuildDate
		}
	}

	return resp
}

// ErrorStrings переводит ошибки расчета в сообщения для клиента
func ErrorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	res := make([]string, 0, len(errs))
	for _, err := range errs {
		res = append(res, err.Error())
	}
	return res
}
