package update_build_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type fakeService struct {
	got *models.UpdateRequest
	err error
}

func (f *fakeService) Update(_ context.Context, req *models.UpdateRequest) (*models.BuildScheduleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BuildScheduleResponse{OpportunityID: req.OpportunityID, CrewSize: *req.CrewSize}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path, body, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/opportunities/{opportunityId}/build-schedule", h.Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec := serve(h, "/opportunities/42/build-schedule", `{"crewSize":3}`, "7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"crewSize":3`)
	assert.Equal(t, int64(42), svc.got.OpportunityID)
	assert.Equal(t, int64(7), svc.got.UserID)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		userID string
		err    error
		status int
	}{
		{"no user", "/opportunities/42/build-schedule", `{"crewSize":3}`, "", nil, http.StatusUnauthorized},
		{"bad id", "/opportunities/abc/build-schedule", `{"crewSize":3}`, "7", nil, http.StatusBadRequest},
		{"unknown field", "/opportunities/42/build-schedule", `{"crew":3}`, "7", nil, http.StatusBadRequest},
		{"bad date", "/opportunities/42/build-schedule", `{"plannedFinishDate":"10/06/2024"}`, "7", nil, http.StatusBadRequest},
		{"nothing to update", "/opportunities/42/build-schedule", `{"crewSize":3}`, "7", buildschedule.ErrInvalidInput, http.StatusBadRequest},
		{"not synced", "/opportunities/42/build-schedule", `{"crewSize":3}`, "7", buildschedule.ErrOpportunityNotFound, http.StatusNotFound},
		{"internal", "/opportunities/42/build-schedule", `{"crewSize":3}`, "7", buildschedule.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			rec := serve(h, tt.path, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
