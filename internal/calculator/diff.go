package calculator

import (
	"math"
	"strconv"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

const hoursEpsilon = 1e-9

// Diff compares the current snapshot of an opportunity with the previous one.
// A zero previous snapshot means the opportunity was never seen and yields a
// ChangeSet with IsNew set and no field changes.
func Diff(current, previous domain.Snapshot) domain.ChangeSet {
	cs := domain.ChangeSet{
		OpportunityID: current.OpportunityID,
		Fields:        []domain.FieldChange{},
		Items:         []domain.ItemChange{},
	}

	if previous.IsZero() {
		cs.IsNew = true
		return cs
	}

	add := func(field, prev, cur string) {
		if prev != cur {
			cs.Fields = append(cs.Fields, domain.FieldChange{Field: field, Previous: prev, Current: cur})
		}
	}

	add(domain.FieldName, previous.Name, current.Name)
	add(domain.FieldStatus, strconv.Itoa(previous.Status), strconv.Itoa(current.Status))
	add(domain.FieldDateOut, previous.DateOut.String(), current.DateOut.String())
	add(domain.FieldTimeOut, previous.TimeOut.String(), current.TimeOut.String())
	if !sameHours(previous.TotalHours, current.TotalHours) {
		cs.Fields = append(cs.Fields, domain.FieldChange{
			Field:    domain.FieldTotalHours,
			Previous: formatFloat(previous.TotalHours),
			Current:  formatFloat(current.TotalHours),
		})
	}
	add(domain.FieldCrewSize, strconv.Itoa(previous.CrewSize), strconv.Itoa(current.CrewSize))
	add(domain.FieldIncludeWeekends, strconv.FormatBool(previous.IncludeWeekends), strconv.FormatBool(current.IncludeWeekends))
	add(domain.FieldPlannedFinishDate, optionalDate(previous.PlannedFinishDate), optionalDate(current.PlannedFinishDate))
	add(domain.FieldWorkingDays, formatFloat(previous.WorkingDays), formatFloat(current.WorkingDays))
	add(domain.FieldStartBuildDate, previous.StartBuildDate.String(), current.StartBuildDate.String())

	cs.Items = diffItems(current.Items, previous.Items)

	return cs
}

// diffItems reports changed and added items in current order, then removed
// items in previous order
func diffItems(current, previous []domain.AggregatedItem) []domain.ItemChange {
	changes := make([]domain.ItemChange, 0)

	prevHours := make(map[string]float64, len(previous))
	for _, it := range previous {
		prevHours[it.Name] += it.Hours
	}
	curHours := make(map[string]float64, len(current))
	for _, it := range current {
		curHours[it.Name] += it.Hours
	}

	seen := make(map[string]struct{}, len(current))
	for _, it := range current {
		if _, dup := seen[it.Name]; dup {
			continue
		}
		seen[it.Name] = struct{}{}

		cur := curHours[it.Name]
		prev, existed := prevHours[it.Name]
		switch {
		case !existed:
			changes = append(changes, domain.ItemChange{Name: it.Name, CurrentHours: cur, Added: true})
		case !sameHours(prev, cur):
			changes = append(changes, domain.ItemChange{Name: it.Name, PreviousHours: prev, CurrentHours: cur})
		}
	}

	removed := make(map[string]struct{})
	for _, it := range previous {
		if _, ok := curHours[it.Name]; ok {
			continue
		}
		if _, dup := removed[it.Name]; dup {
			continue
		}
		removed[it.Name] = struct{}{}
		changes = append(changes, domain.ItemChange{Name: it.Name, PreviousHours: prevHours[it.Name], Removed: true})
	}

	return changes
}

func sameHours(a, b float64) bool {
	return math.Abs(a-b) < hoursEpsilon
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalDate(d *types.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
