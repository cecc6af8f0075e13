package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/calculator"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestDaysCmd(t *testing.T) {
	out, err := run(t, "", "days", "--hours", "40", "--crew", "2")
	require.NoError(t, err)
	assert.Equal(t, "working days: 2.5\n", out)

	out, err = run(t, "", "days", "--hours", "6", "--crew", "2")
	require.NoError(t, err)
	assert.Equal(t, "working days: 0.5\n", out)

	_, err = run(t, "", "days", "--hours", "8", "--crew", "0")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestStartCmd(t *testing.T) {
	// 2024-06-10 is a Monday
	out, err := run(t, "", "start", "--date-out", "2024-06-10", "--working-days", "1")
	require.NoError(t, err)
	assert.Equal(t, "start build: 2024-06-07\n", out)

	out, err = run(t, "", "start", "--date-out", "2024-06-10", "--working-days", "1", "--weekends")
	require.NoError(t, err)
	assert.Equal(t, "start build: 2024-06-09\n", out)

	out, err = run(t, "", "start", "--date-out", "2024-06-10", "--working-days", "1", "--planned-finish")
	require.NoError(t, err)
	assert.Equal(t, "start build: 2024-06-10\n", out)

	_, err = run(t, "", "start", "--date-out", "10.06.2024", "--working-days", "1")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestPlanCmd(t *testing.T) {
	plan := `{
		"date_out": "2024-06-10",
		"crew_size": 2,
		"items": [
			{"name": "Wall - 2m", "quantity": 16},
			{"name": "Wall - 3m", "quantity": 8},
			{"name": "Door", "quantity": 4}
		]
	}`

	out, err := run(t, plan, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "total hours: 14\n")
	assert.Contains(t, out, "working days: 1\n")
	assert.Contains(t, out, "start build: 2024-06-07\n")
	assert.Contains(t, out, "Wall")
	assert.Less(t, strings.Index(out, "Wall"), strings.Index(out, "Door"))
}

func TestPlanCmd_Catalog(t *testing.T) {
	plan := `{
		"date_out": "2024-06-10",
		"catalog": ["Door"],
		"items": [
			{"name": "Wall - 2m", "quantity": 16},
			{"name": "Door", "quantity": 4}
		]
	}`

	out, err := run(t, plan, "plan")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wall")
	assert.Contains(t, out, "total hours: 2\n")
	assert.Contains(t, out, "working days: 0.5\n")
}

func TestPlanCmd_InvalidInput(t *testing.T) {
	plan := `{"crew_size": 1, "items": [{"name": "Door", "quantity": 4}]}`

	out, err := run(t, plan, "plan")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
	assert.Contains(t, out, "error: ")

	_, err = run(t, "{not json", "plan")
	assert.Error(t, err)
}
