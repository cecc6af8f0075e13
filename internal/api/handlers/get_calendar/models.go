package get_calendar

import (
	getCalendar "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Days []DayResponse `json:"days"`
}

// DayResponse один день календаря
type DayResponse struct {
	Date    string           `json:"date"`
	Weekday string           `json:"weekday"`
	Markers []MarkerResponse `json:"markers"`
}

// MarkerResponse выезд или возврат заявки
type MarkerResponse struct {
	Kind          string `json:"kind"`
	OpportunityID int64  `json:"opportunityId"`
	Name          string `json:"name"`
	Time          string `json:"time,omitempty"`
	HireType      string `json:"hireType"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	res := &CalendarResponse{Days: make([]DayResponse, 0, len(resp.Days))}

	for _, d := range resp.Days {
		day := DayResponse{
			Date:    d.Date.String(),
			Weekday: d.Date.Weekday().String(),
			Markers: make([]MarkerResponse, 0, len(d.Markers)),
		}
		for _, m := range d.Markers {
			day.Markers = append(day.Markers, MarkerResponse{
				Kind:          string(m.Kind),
				OpportunityID: m.OpportunityID,
				Name:          m.Name,
				Time:          m.Time.String(),
				HireType:      string(m.HireType),
			})
		}
		res.Days = append(res.Days, day)
	}
	return res
}
