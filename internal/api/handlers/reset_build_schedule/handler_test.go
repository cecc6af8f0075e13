package reset_build_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

type fakeService struct {
	opportunityID int64
	userID        int64
	err           error
}

func (f *fakeService) Reset(_ context.Context, opportunityID, userID int64) (*models.BuildScheduleResponse, error) {
	f.opportunityID = opportunityID
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.BuildScheduleResponse{OpportunityID: opportunityID, CrewSize: 1}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, path, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/opportunities/{opportunityId}/build-schedule", h.Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, path, nil)
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

	rec := serve(h, "/opportunities/42/build-schedule", "7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"crewSize":1`)
	assert.Equal(t, int64(42), svc.opportunityID)
	assert.Equal(t, int64(7), svc.userID)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		userID string
		err    error
		status int
	}{
		{"no user", "/opportunities/42/build-schedule", "", nil, http.StatusUnauthorized},
		{"bad id", "/opportunities/abc/build-schedule", "7", nil, http.StatusBadRequest},
		{"not synced", "/opportunities/42/build-schedule", "7", buildschedule.ErrOpportunityNotFound, http.StatusNotFound},
		{"internal", "/opportunities/42/build-schedule", "7", buildschedule.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			rec := serve(h, tt.path, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
