package get_workload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
	"github.com/m04kA/SMC-WorkloadService/pkg/ptr"
)

type fakeOpportunities struct {
	upcoming *opportunities.Upcoming
	err      error
	query    opportunities.Query
}

func (f *fakeOpportunities) ListUpcoming(_ context.Context, q opportunities.Query) (*opportunities.Upcoming, error) {
	f.query = q
	return f.upcoming, f.err
}

type weightGauge map[string]float64

func (w weightGauge) SetWorkloadWeight(group string, weight float64) { w[group] = weight }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func withWeights(weights ...float64) []*domain.Opportunity {
	res := make([]*domain.Opportunity, 0, len(weights))
	for i, w := range weights {
		res = append(res, &domain.Opportunity{ID: int64(i + 1), WeightTotal: w})
	}
	return res
}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		provisional []float64
		reserved    []float64
		confirmed   []float64
		total       float64
		colour      domain.WorkloadColour
	}{
		{"empty window is green", nil, nil, nil, 0, domain.WorkloadGreen},
		{"exactly 30000 stays green", []float64{10000}, []float64{10000}, []float64{10000}, 30000, domain.WorkloadGreen},
		{"above 30000 is yellow", []float64{10000.01}, []float64{10000}, []float64{10000}, 30000.01, domain.WorkloadYellow},
		{"above 40000 is red", nil, []float64{20000}, []float64{15000.5, 5000}, 40000.5, domain.WorkloadRed},
		{"sums are rounded", []float64{0.333, 0.333}, nil, nil, 0.67, domain.WorkloadGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOpportunities{upcoming: &opportunities.Upcoming{
				Now:   now,
				Until: now.AddDate(0, 0, 14),
				Groups: []opportunities.GroupOpportunities{
					{Group: domain.StatusGroupProvisional, Opportunities: withWeights(tt.provisional...)},
					{Group: domain.StatusGroupReserved, Opportunities: withWeights(tt.reserved...)},
					{Group: domain.StatusGroupConfirmed, Opportunities: withWeights(tt.confirmed...)},
				},
			}}
			gauge := weightGauge{}

			resp, err := NewUseCase(fake, gauge, nopLogger{}).Execute(context.Background(), &Request{Days: 14})
			require.NoError(t, err)

			assert.InDelta(t, tt.total, resp.Summary.Total, 1e-9)
			assert.Equal(t, tt.colour, resp.Summary.Colour)
			assert.Len(t, resp.Summary.ConfirmedOpportunities, len(tt.confirmed))
			assert.Len(t, gauge, 3)
			assert.Equal(t, 14, fake.query.Days)
			assert.Equal(t, domain.UpcomingStatusGroups, fake.query.Groups)
		})
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	uc := NewUseCase(&fakeOpportunities{err: opportunities.ErrCRMUnavailable}, weightGauge{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Days: 14})
	assert.ErrorIs(t, err, ErrCRMUnavailable)

	_, err = uc.Execute(context.Background(), &Request{Days: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Days: 14, OwnerName: ptr.Ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
