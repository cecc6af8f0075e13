package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// HireType represents how an opportunity is fulfilled
type HireType string

const (
	HireTypeDry          HireType = "Dry Hire"
	HireTypeDryTransport HireType = "Dry Hire Transport"
	HireTypeWet          HireType = "Wet Hire"
)

// StatusGroup identifies a state/status pair in the CRM
type StatusGroup struct {
	Name   string
	State  int
	Status int
}

var (
	StatusGroupProvisional = StatusGroup{Name: "provisional", State: 2, Status: 1}
	StatusGroupReserved    = StatusGroup{Name: "reserved", State: 2, Status: 5}
	StatusGroupConfirmed   = StatusGroup{Name: "confirmed", State: 3, Status: 0}
)

// UpcomingStatusGroups groups fetched for workload and workshop views, in display order
var UpcomingStatusGroups = []StatusGroup{
	StatusGroupProvisional,
	StatusGroupReserved,
	StatusGroupConfirmed,
}

// StatusDispatched opportunities already left the warehouse and get no "going out" marker
const StatusDispatched = 20

// Opportunity represents a CRM rental/hire job
type Opportunity struct {
	ID         int64
	Number     string
	Subject    string
	State      int
	Status     int
	OwnerName  string
	ClientName string
	VenueName  string
	Tags       []string

	StartsAt        *time.Time
	EndsAt          *time.Time
	LoadStartsAt    *time.Time
	DeliverStartsAt *time.Time
	UnloadStartsAt  *time.Time
	CollectStartsAt *time.Time

	WeightTotal      float64
	DryHire          bool
	DryHireTransport bool
}

// GoingOutAt returns the first known of load, deliver and start timestamps
func (o *Opportunity) GoingOutAt() *time.Time {
	return firstSet(o.LoadStartsAt, o.DeliverStartsAt, o.StartsAt)
}

// ComingBackAt returns the first known of unload, collect and end timestamps
func (o *Opportunity) ComingBackAt() *time.Time {
	return firstSet(o.UnloadStartsAt, o.CollectStartsAt, o.EndsAt)
}

// DateOut returns the calendar date the job goes out in the given location
func (o *Opportunity) DateOut(loc *time.Location) types.Date {
	t := o.GoingOutAt()
	if t == nil {
		return types.Date{}
	}
	return types.DateOf(t.In(loc))
}

// TimeOut returns the going-out time of day truncated to minutes
func (o *Opportunity) TimeOut(loc *time.Location) types.TimeString {
	t := o.GoingOutAt()
	if t == nil {
		return ""
	}
	return types.NewTimeString(t.In(loc).Truncate(time.Minute))
}

// DateBack returns the calendar date the job comes back in the given location
func (o *Opportunity) DateBack(loc *time.Location) types.Date {
	t := o.ComingBackAt()
	if t == nil {
		return types.Date{}
	}
	return types.DateOf(t.In(loc))
}

// HireType derives the hire type from the CRM custom fields
func (o *Opportunity) HireType() HireType {
	switch {
	case o.DryHire:
		return HireTypeDry
	case o.DryHireTransport:
		return HireTypeDryTransport
	default:
		return HireTypeWet
	}
}

// HasTag reports whether the opportunity carries the tag
func (o *Opportunity) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// IsDispatched returns true if the opportunity has already gone out
func (o *Opportunity) IsDispatched() bool {
	return o.Status == StatusDispatched
}

// StartsWithin reports whether starts_at falls in [now, now+days]
func (o *Opportunity) StartsWithin(now time.Time, days int) bool {
	if o.StartsAt == nil {
		return false
	}
	until := now.AddDate(0, 0, days)
	return !o.StartsAt.Before(now) && !o.StartsAt.After(until)
}

func firstSet(candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			return c
		}
	}
	return nil
}

// OpportunityFilter selects opportunities in the CRM
type OpportunityFilter struct {
	Group     StatusGroup
	OwnerName *string
}
