package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-WorkloadService/pkg/ptr"
)

func TestOpportunity_DateOutPrecedence(t *testing.T) {
	starts := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	deliver := time.Date(2024, 6, 11, 14, 30, 45, 0, time.UTC)
	load := time.Date(2024, 6, 10, 7, 15, 0, 0, time.UTC)

	o := &Opportunity{StartsAt: &starts}
	assert.Equal(t, "2024-06-12", o.DateOut(time.UTC).String())

	o.DeliverStartsAt = &deliver
	assert.Equal(t, "2024-06-11", o.DateOut(time.UTC).String())
	assert.Equal(t, "14:30", o.TimeOut(time.UTC).String())

	o.LoadStartsAt = &load
	assert.Equal(t, "2024-06-10", o.DateOut(time.UTC).String())
	assert.Equal(t, "07:15", o.TimeOut(time.UTC).String())
}

func TestOpportunity_DateOutInLocation(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata not available")
	}

	load := time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)
	o := &Opportunity{LoadStartsAt: &load}

	assert.Equal(t, "2024-06-10", o.DateOut(london).String())
	assert.Equal(t, "00:30", o.TimeOut(london).String())
}

func TestOpportunity_DateBackPrecedence(t *testing.T) {
	ends := time.Date(2024, 6, 20, 18, 0, 0, 0, time.UTC)
	collect := time.Date(2024, 6, 19, 10, 0, 0, 0, time.UTC)

	o := &Opportunity{EndsAt: &ends}
	assert.Equal(t, "2024-06-20", o.DateBack(time.UTC).String())

	o.CollectStartsAt = &collect
	assert.Equal(t, "2024-06-19", o.DateBack(time.UTC).String())

	assert.True(t, (&Opportunity{}).DateBack(time.UTC).IsZero())
	assert.Equal(t, "", (&Opportunity{}).TimeOut(time.UTC).String())
}

func TestOpportunity_HireType(t *testing.T) {
	assert.Equal(t, HireTypeDry, (&Opportunity{DryHire: true, DryHireTransport: true}).HireType())
	assert.Equal(t, HireTypeDryTransport, (&Opportunity{DryHireTransport: true}).HireType())
	assert.Equal(t, HireTypeWet, (&Opportunity{}).HireType())
}

func TestOpportunity_HasTag(t *testing.T) {
	o := &Opportunity{Tags: []string{"LIGHTING", " Scenic "}}
	assert.True(t, o.HasTag("SCENIC"))
	assert.False(t, o.HasTag("AUDIO"))
}

func TestOpportunity_StartsWithin(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		starts *time.Time
		want   bool
	}{
		{"no start", nil, false},
		{"past", ptr.Ptr(now.Add(-time.Hour)), false},
		{"now", ptr.Ptr(now), true},
		{"inside", ptr.Ptr(now.AddDate(0, 0, 7)), true},
		{"upper bound", ptr.Ptr(now.AddDate(0, 0, 14)), true},
		{"after", ptr.Ptr(now.AddDate(0, 0, 14).Add(time.Second)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opportunity{StartsAt: tt.starts}
			assert.Equal(t, tt.want, o.StartsWithin(now, 14))
		})
	}
}

func TestColourForWeight(t *testing.T) {
	assert.Equal(t, WorkloadGreen, ColourForWeight(0))
	assert.Equal(t, WorkloadGreen, ColourForWeight(30000))
	assert.Equal(t, WorkloadYellow, ColourForWeight(30000.01))
	assert.Equal(t, WorkloadYellow, ColourForWeight(40000))
	assert.Equal(t, WorkloadRed, ColourForWeight(40000.5))
}

func TestClampCrewSize(t *testing.T) {
	assert.Equal(t, 1, ClampCrewSize(-3))
	assert.Equal(t, 1, ClampCrewSize(0))
	assert.Equal(t, 7, ClampCrewSize(7))
	assert.Equal(t, 20, ClampCrewSize(21))
}

func TestChangeSet_HasChanges(t *testing.T) {
	assert.False(t, ChangeSet{}.HasChanges())
	assert.True(t, ChangeSet{IsNew: true}.HasChanges())

	cs := ChangeSet{Fields: []FieldChange{{Field: FieldCrewSize, Previous: "1", Current: "2"}}}
	assert.True(t, cs.HasChanges())
	assert.True(t, cs.Changed(FieldCrewSize))
	assert.False(t, cs.Changed(FieldDateOut))
}
