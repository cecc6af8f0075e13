package calculator

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// WorkingDays converts labour hours into crew working days with half-day
// granularity: ceil((hours / HoursPerHalfDay) / crew) half-days, halved.
//
// Hours must be finite and non-negative, crew positive and the result at most
// domain.MaxWorkingDays. Otherwise the result is 0 together with an error
// wrapping ErrInvalidInput; the value is still safe to use.
func WorkingDays(totalHours float64, crewSize int) (float64, error) {
	if math.IsNaN(totalHours) || math.IsInf(totalHours, 0) || totalHours < 0 {
		return 0, fmt.Errorf("%w: total hours must be a finite non-negative number, got %v", ErrInvalidInput, totalHours)
	}
	if crewSize <= 0 {
		return 0, fmt.Errorf("%w: crew size must be positive, got %d", ErrInvalidInput, crewSize)
	}

	halfDays := math.Ceil((totalHours / domain.HoursPerHalfDay) / float64(crewSize))
	wd := halfDays / domain.HalfDaysPerDay
	if wd > domain.MaxWorkingDays {
		return 0, fmt.Errorf("%w: %v hours for crew %d exceed %d working days",
			ErrInvalidInput, totalHours, crewSize, domain.MaxWorkingDays)
	}
	return wd, nil
}

// StartBuildDate walks back from dateOut to the day build work has to start.
//
// The walk takes ceil(workingDays) steps, one fewer when dateOut is a planned
// finish date since that day is itself the last working day. With weekends
// included every calendar day is a step; otherwise Saturdays and Sundays are
// passed over without being counted.
//
// Invalid input, including more than domain.MaxWorkingDays, yields the zero
// Date and an error wrapping ErrInvalidInput.
func StartBuildDate(workingDays float64, dateOut types.Date, includeWeekends, isPlannedFinish bool) (types.Date, error) {
	if math.IsNaN(workingDays) || math.IsInf(workingDays, 0) || workingDays < 0 {
		return types.Date{}, fmt.Errorf("%w: working days must be a finite non-negative number, got %v", ErrInvalidInput, workingDays)
	}
	if workingDays > domain.MaxWorkingDays {
		return types.Date{}, fmt.Errorf("%w: working days must not exceed %d, got %v",
			ErrInvalidInput, domain.MaxWorkingDays, workingDays)
	}
	if dateOut.IsZero() {
		return types.Date{}, fmt.Errorf("%w: date out is required", ErrInvalidInput)
	}

	steps := int(math.Ceil(workingDays))
	if isPlannedFinish {
		steps--
	}
	if steps < 0 {
		steps = 0
	}

	if includeWeekends {
		return dateOut.AddDays(-steps), nil
	}

	if steps == 0 {
		return dateOut, nil
	}

	// after the first step d is a weekday, and from a weekday
	// five working days back is always seven calendar days back
	d := previousWeekday(dateOut)
	steps--
	d = d.AddDays(-(steps / 5) * 7)
	for i := 0; i < steps%5; i++ {
		d = previousWeekday(d)
	}
	return d, nil
}

func previousWeekday(d types.Date) types.Date {
	d = d.AddDays(-1)
	for d.IsWeekend() {
		d = d.AddDays(-1)
	}
	return d
}

// StartBuildDateString is StartBuildDate over YYYY-MM-DD strings.
// An unparsable date yields "" and an error wrapping ErrInvalidInput.
func StartBuildDateString(workingDays float64, dateOut string, includeWeekends, isPlannedFinish bool) (string, error) {
	d, err := types.ParseDate(dateOut)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start, err := StartBuildDate(workingDays, d, includeWeekends, isPlannedFinish)
	if err != nil {
		return "", err
	}
	return start.String(), nil
}
