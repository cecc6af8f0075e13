package get_workload

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	getWorkload "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_workload"
)

// WorkloadResponse HTTP response model
type WorkloadResponse struct {
	Days                   int                   `json:"days"`
	From                   string                `json:"from"`
	Until                  string                `json:"until"`
	Provisional            float64               `json:"provisional"`
	Reserved               float64               `json:"reserved"`
	Confirmed              float64               `json:"confirmed"`
	Total                  float64               `json:"total"`
	Colour                 string                `json:"colour"`
	ConfirmedOpportunities []OpportunityResponse `json:"confirmedOpportunities"`
}

// OpportunityResponse подтвержденная заявка окна
type OpportunityResponse struct {
	ID          int64   `json:"id"`
	Number      string  `json:"number,omitempty"`
	Subject     string  `json:"subject"`
	OwnerName   string  `json:"ownerName,omitempty"`
	ClientName  string  `json:"clientName,omitempty"`
	VenueName   string  `json:"venueName,omitempty"`
	StartsAt    *string `json:"startsAt,omitempty"`
	EndsAt      *string `json:"endsAt,omitempty"`
	WeightTotal float64 `json:"weightTotal"`
	HireType    string  `json:"hireType"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getWorkload.Response) *WorkloadResponse {
	s := resp.Summary
	res := &WorkloadResponse{
		Days:                   s.Days,
		From:                   s.From.Format(time.RFC3339),
		Until:                  s.Until.Format(time.RFC3339),
		Provisional:            s.Provisional,
		Reserved:               s.Reserved,
		Confirmed:              s.Confirmed,
		Total:                  s.Total,
		Colour:                 string(s.Colour),
		ConfirmedOpportunities: make([]OpportunityResponse, 0, len(s.ConfirmedOpportunities)),
	}

	for _, o := range s.ConfirmedOpportunities {
		res.ConfirmedOpportunities = append(res.ConfirmedOpportunities, fromDomain(o))
	}
	return res
}

func fromDomain(o *domain.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:          o.ID,
		Number:      o.Number,
		Subject:     o.Subject,
		OwnerName:   o.OwnerName,
		ClientName:  o.ClientName,
		VenueName:   o.VenueName,
		StartsAt:    formatTime(o.StartsAt),
		EndsAt:      formatTime(o.EndsAt),
		WeightTotal: o.WeightTotal,
		HireType:    string(o.HireType()),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
