package domain

import (
	"math"
	"time"

	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// WorkloadColour is the traffic light state of the warehouse workload
type WorkloadColour string

const (
	WorkloadGreen  WorkloadColour = "green"
	WorkloadYellow WorkloadColour = "yellow"
	WorkloadRed    WorkloadColour = "red"
)

// ColourForWeight maps total weight (kg) to a traffic light colour
func ColourForWeight(total float64) WorkloadColour {
	switch {
	case total > WorkloadRedThreshold:
		return WorkloadRed
	case total > WorkloadYellowThreshold:
		return WorkloadYellow
	default:
		return WorkloadGreen
	}
}

// RoundWeight rounds a weight to two decimal places
func RoundWeight(w float64) float64 {
	return math.Round(w*100) / 100
}

// WorkloadSummary is the weight of upcoming opportunities per status group
type WorkloadSummary struct {
	Days        int
	From        time.Time
	Until       time.Time
	Provisional float64
	Reserved    float64
	Confirmed   float64
	Total       float64
	Colour      WorkloadColour
	// Confirmed opportunities in the window, ordered by start
	ConfirmedOpportunities []*Opportunity
}

// MarkerKind distinguishes calendar markers
type MarkerKind string

const (
	MarkerGoingOut   MarkerKind = "going_out"
	MarkerComingBack MarkerKind = "coming_back"
)

// CalendarMarker places an opportunity on one calendar day
type CalendarMarker struct {
	Kind          MarkerKind
	OpportunityID int64
	Name          string
	Time          types.TimeString
	HireType      HireType
}

// CalendarDay is one cell of the rolling calendar
type CalendarDay struct {
	Date    types.Date
	Markers []CalendarMarker
}
