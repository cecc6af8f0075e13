package calculator

import (
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// Input is everything needed to schedule one opportunity
type Input struct {
	Items             []domain.LineItem
	Catalog           domain.Catalog
	DateOut           types.Date
	PlannedFinishDate *types.Date
	CrewSize          int
	IncludeWeekends   bool
}

// Result is the computed schedule. Errors lists every input problem met on the
// way; the numeric fields then hold zero values.
type Result struct {
	Items          []domain.AggregatedItem
	TotalHours     float64
	WorkingDays    float64
	StartBuildDate types.Date
	Errors         []error
}

// Valid returns true if no input problem was reported
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Calculate aggregates items, converts hours to working days and solves the
// start build date.
func Calculate(in Input) Result {
	var res Result

	res.Items = AggregateItems(in.Items, in.Catalog)
	res.TotalHours = TotalHours(res.Items)
	res.WorkingDays, res.StartBuildDate, res.Errors = Schedule(
		res.TotalHours, in.DateOut, in.PlannedFinishDate, in.CrewSize, in.IncludeWeekends)

	return res
}

// Schedule converts already aggregated hours to working days and solves the
// start build date. The planned finish date, when set, replaces date out as the
// anchor of the backward walk. Any input problem zeroes both results.
func Schedule(
	totalHours float64,
	dateOut types.Date,
	plannedFinishDate *types.Date,
	crewSize int,
	includeWeekends bool,
) (float64, types.Date, []error) {
	var errs []error

	wd, err := WorkingDays(totalHours, crewSize)
	if err != nil {
		errs = append(errs, err)
	}

	anchor := dateOut
	plannedFinish := plannedFinishDate != nil && !plannedFinishDate.IsZero()
	if plannedFinish {
		anchor = *plannedFinishDate
	}

	start, err := StartBuildDate(wd, anchor, includeWeekends, plannedFinish)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return 0, types.Date{}, errs
	}

	return wd, start, nil
}
