package domain

// Scheduling conventions
const (
	HoursPerHalfDay = 4 // one crew half-day is four hours of work
	HalfDaysPerDay  = 2

	// MaxWorkingDays upper bound of a build schedule; fits build_overrides.working_days
	MaxWorkingDays = 10000
)

// Crew size bounds
const (
	MinCrewSize     = 1
	MaxCrewSize     = 20
	DefaultCrewSize = 1
)

// Default horizons in days
const (
	DefaultWorkloadDays = 14
	DefaultCalendarDays = 28
	DefaultWorkshopDays = 91
	MaxHorizonDays      = 365
)

// Workload traffic light thresholds (kg)
const (
	WorkloadRedThreshold    = 40000.0
	WorkloadYellowThreshold = 30000.0
)

// Catalog defaults
const (
	DefaultProductGroup = "Scenic Calcs"
	DefaultScenicTag    = "SCENIC"
)

// DefaultExcludedProductIDs products removed from the active catalog
var DefaultExcludedProductIDs = []int64{4597}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ClampCrewSize bounds crew size to [MinCrewSize, MaxCrewSize]
func ClampCrewSize(n int) int {
	if n < MinCrewSize {
		return MinCrewSize
	}
	if n > MaxCrewSize {
		return MaxCrewSize
	}
	return n
}
