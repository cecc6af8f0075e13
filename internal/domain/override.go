package domain

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/pkg/ptr"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// BuildOverride holds the user-editable scheduling parameters of an opportunity
// together with the values computed from them when they were last saved.
type BuildOverride struct {
	OpportunityID     int64
	CrewSize          int
	IncludeWeekends   bool
	PlannedFinishDate *types.Date // NULL = anchor on date out
	Built             bool

	WorkingDays    float64
	StartBuildDate types.Date
	DateOut        types.Date
	TimeOut        types.TimeString

	Previous OverrideHistory

	UpdatedBy           *int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	PreviouslyUpdatedAt *time.Time
}

// OverrideHistory keeps the values that were replaced by the last update.
// A nil field means the value has never changed. A zero PlannedFinishDate
// means there was no planned finish before the last change.
type OverrideHistory struct {
	CrewSize          *int
	IncludeWeekends   *bool
	PlannedFinishDate *types.Date
	Built             *bool
	WorkingDays       *float64
	StartBuildDate    *types.Date
	DateOut           *types.Date
	TimeOut           *types.TimeString
}

// DefaultBuildOverride returns the override used when none has been stored
func DefaultBuildOverride(opportunityID int64) *BuildOverride {
	return &BuildOverride{
		OpportunityID:   opportunityID,
		CrewSize:        DefaultCrewSize,
		IncludeWeekends: false,
	}
}

// IsPlannedFinish returns true if the start date is solved from a planned finish date
func (o *BuildOverride) IsPlannedFinish() bool {
	return o.PlannedFinishDate != nil && !o.PlannedFinishDate.IsZero()
}

// TrackChanges records in Previous every tracked value of old that o replaces.
// Values that did not change keep their earlier history.
func (o *BuildOverride) TrackChanges(old *BuildOverride) {
	if old == nil {
		return
	}

	o.Previous = old.Previous
	o.CreatedAt = old.CreatedAt
	changed := false

	if o.CrewSize != old.CrewSize {
		o.Previous.CrewSize = ptr.Ptr(old.CrewSize)
		changed = true
	}
	if o.IncludeWeekends != old.IncludeWeekends {
		o.Previous.IncludeWeekends = ptr.Ptr(old.IncludeWeekends)
		changed = true
	}
	if !sameDate(o.PlannedFinishDate, old.PlannedFinishDate) {
		if old.PlannedFinishDate != nil {
			o.Previous.PlannedFinishDate = ptr.Ptr(*old.PlannedFinishDate)
		} else {
			o.Previous.PlannedFinishDate = ptr.Ptr(types.Date{})
		}
		changed = true
	}
	if o.Built != old.Built {
		o.Previous.Built = ptr.Ptr(old.Built)
		changed = true
	}
	if o.WorkingDays != old.WorkingDays {
		o.Previous.WorkingDays = ptr.Ptr(old.WorkingDays)
		changed = true
	}
	if !o.StartBuildDate.Equal(old.StartBuildDate) {
		o.Previous.StartBuildDate = ptr.Ptr(old.StartBuildDate)
		changed = true
	}
	if !o.DateOut.Equal(old.DateOut) {
		o.Previous.DateOut = ptr.Ptr(old.DateOut)
		changed = true
	}
	if o.TimeOut != old.TimeOut {
		o.Previous.TimeOut = ptr.Ptr(old.TimeOut)
		changed = true
	}

	if changed && !old.UpdatedAt.IsZero() {
		o.PreviouslyUpdatedAt = ptr.Ptr(old.UpdatedAt)
	} else {
		o.PreviouslyUpdatedAt = old.PreviouslyUpdatedAt
	}
}

func sameDate(a, b *types.Date) bool {
	az := a == nil || a.IsZero()
	bz := b == nil || b.IsZero()
	if az || bz {
		return az == bz
	}
	return a.Equal(*b)
}
