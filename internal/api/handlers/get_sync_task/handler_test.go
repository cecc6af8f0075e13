package get_sync_task

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

const taskID = "0b8e1c52-3a5e-4f0e-9f7a-2d0c7d2f1a11"

type fakeGetter map[string]worker.Task

func (f fakeGetter) Get(id string) (worker.Task, error) {
	t, ok := f[id]
	if !ok {
		return worker.Task{}, worker.ErrTaskNotFound
	}
	return t, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(tasks fakeGetter, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tasks/{taskId}", NewHandler(tasks, nopLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/"+id, nil))
	return rec
}

func TestHandler_Handle(t *testing.T) {
	finished := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	tasks := fakeGetter{taskID: {
		ID:         taskID,
		Days:       91,
		Status:     worker.TaskSuccess,
		Done:       2,
		Total:      2,
		CreatedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
		Result:     &sync_workshop.Response{SyncedAt: finished, Days: 91, Opportunities: []sync_workshop.Opportunity{}},
	}}

	rec := serve(tasks, taskID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "SUCCESS", got.Status)
	assert.Equal(t, 2, got.Done)
	require.NotNil(t, got.Result)
	assert.Equal(t, 91, got.Result.Days)
	assert.Empty(t, got.Error)
}

func TestHandler_Handle_Errors(t *testing.T) {
	failed := fakeGetter{taskID: {ID: taskID, Status: worker.TaskFailure, Err: errors.New("dial tcp: refused")}}

	rec := serve(failed, taskID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
	assert.Contains(t, rec.Body.String(), `"status":"FAILURE"`)

	assert.Equal(t, http.StatusBadRequest, serve(failed, "not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, serve(fakeGetter{}, taskID).Code)
}
