package calculate_build_schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type errorCounter map[string]int

func (e errorCounter) IncCalculatorError(op string) { e[op]++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler_Handle(t *testing.T) {
	const items = `"items":[{"name":"Flat - 3m","quantity":80}],"catalog":["Flat - 3m"],"dateOut":"2024-06-10"`

	tests := []struct {
		name        string
		body        string
		status      int
		workingDays float64
		start       string
		errors      int
	}{
		{"crew omitted", `{` + items + `}`, http.StatusOK, 5, "2024-06-03", 0},
		{"crew of two", `{` + items + `,"crewSize":2}`, http.StatusOK, 2.5, "2024-06-05", 0},
		{"crew clamped", `{` + items + `,"crewSize":1000}`, http.StatusOK, 0.5, "2024-06-07", 1},
		{"bad date out", `{"items":[],"dateOut":"June"}`, http.StatusOK, 0, "", 2},
		{"huge quantity", `{"items":[{"name":"Flat","quantity":1e12}],"catalog":["Flat"],"dateOut":"2024-06-10"}`,
			http.StatusOK, 0, "", 1},
		{"broken json", `{"items":`, http.StatusBadRequest, 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := errorCounter{}
			svc := buildschedule.NewService(nil, nil, nil, counter, nopLogger{})
			h := NewHandler(svc, nopLogger{})

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/build-schedule/calculate", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			var resp models.CalculateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.workingDays, resp.WorkingDays)
			assert.Equal(t, tt.start, resp.StartBuildDate)
			assert.Len(t, resp.Errors, tt.errors)
			assert.Equal(t, tt.errors, counter["calculate"])
		})
	}
}
