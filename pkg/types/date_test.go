package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("10/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_ZeroValue(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate_AddDaysAndWeekend(t *testing.T) {
	d := MustParseDate("2024-06-10")

	sunday := d.AddDays(-1)
	assert.Equal(t, "2024-06-09", sunday.String())
	assert.True(t, sunday.IsWeekend())
	assert.False(t, d.IsWeekend())

	assert.True(t, MustParseDate("2024-06-07").Before(d))
}

func TestDate_DateOfKeepsCalendarDay(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 23:30 UTC 9 June is 00:30 BST 10 June
	ts := time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC).In(london)
	assert.Equal(t, "2024-06-10", DateOf(ts).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date  Date  `json:"date"`
		Maybe *Date `json:"maybe,omitempty"`
	}

	data, err := json.Marshal(payload{Date: MustParseDate("2024-06-07")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-07"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-09","maybe":"2024-06-01"}`), &p))
	assert.Equal(t, "2024-06-09", p.Date.String())
	require.NotNil(t, p.Maybe)
	assert.Equal(t, "2024-06-01", p.Maybe.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"junk"}`), &p))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-07", d.String())

	require.NoError(t, d.Scan([]byte("2024-06-08T00:00:00Z")))
	assert.Equal(t, "2024-06-08", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
