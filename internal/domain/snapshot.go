package domain

import (
	"time"

	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// Snapshot is the computed build schedule of an opportunity at one point in time
type Snapshot struct {
	OpportunityID     int64            `json:"opportunityId"`
	Name              string           `json:"name"`
	Number            string           `json:"number,omitempty"`
	ClientName        string           `json:"clientName,omitempty"`
	Status            int              `json:"status"`
	HireType          HireType         `json:"hireType,omitempty"`
	DateOut           types.Date       `json:"dateOut"`
	TimeOut           types.TimeString `json:"timeOut,omitempty"`
	Items             []AggregatedItem `json:"items"`
	TotalHours        float64          `json:"totalHours"`
	CrewSize          int              `json:"crewSize"`
	IncludeWeekends   bool             `json:"includeWeekends"`
	PlannedFinishDate *types.Date      `json:"plannedFinishDate,omitempty"`
	Built             bool             `json:"built"`
	WorkingDays       float64          `json:"workingDays"`
	StartBuildDate    types.Date       `json:"startBuildDate"`
	SyncedAt          time.Time        `json:"syncedAt"`
}

// IsZero returns true for the empty snapshot of a never seen opportunity
func (s Snapshot) IsZero() bool {
	return s.OpportunityID == 0
}

// ItemHours returns hours per aggregated item name
func (s Snapshot) ItemHours() map[string]float64 {
	m := make(map[string]float64, len(s.Items))
	for _, it := range s.Items {
		m[it.Name] = it.Hours
	}
	return m
}

// Change field names
const (
	FieldName              = "name"
	FieldStatus            = "status"
	FieldDateOut           = "dateOut"
	FieldTimeOut           = "timeOut"
	FieldTotalHours        = "totalHours"
	FieldCrewSize          = "crewSize"
	FieldIncludeWeekends   = "includeWeekends"
	FieldPlannedFinishDate = "plannedFinishDate"
	FieldWorkingDays       = "workingDays"
	FieldStartBuildDate    = "startBuildDate"
)

// FieldChange is one scalar field that differs between two snapshots
type FieldChange struct {
	Field    string `json:"field"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// ItemChange is an aggregated item whose hours differ between two snapshots.
// Added items have zero PreviousHours, removed items zero CurrentHours.
type ItemChange struct {
	Name          string  `json:"name"`
	PreviousHours float64 `json:"previousHours"`
	CurrentHours  float64 `json:"currentHours"`
	Added         bool    `json:"added,omitempty"`
	Removed       bool    `json:"removed,omitempty"`
}

// ChangeSet describes how an opportunity changed since its previous snapshot
type ChangeSet struct {
	OpportunityID int64         `json:"opportunityId"`
	IsNew         bool          `json:"isNew"`
	Fields        []FieldChange `json:"fields"`
	Items         []ItemChange  `json:"items"`
}

// HasChanges returns true if anything differs, including first sighting
func (c ChangeSet) HasChanges() bool {
	return c.IsNew || len(c.Fields) > 0 || len(c.Items) > 0
}

// Changed reports whether the named field changed
func (c ChangeSet) Changed(field string) bool {
	for _, f := range c.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
