package retry_sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"
	retrySync "github.com/m04kA/SMC-AssistantBooking/internal/usecase/retry_sync"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
)

type fakeUseCase struct {
	resp *retrySync.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *retrySync.Request) (*retrySync.Response, error) {
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}/sync", NewHandler(uc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &fakeUseCase{resp: &retrySync.Response{AppointmentID: 4, Results: []syncdispatch.Result{
		{Kind: domain.SyncCalendar, Status: domain.SyncDone, Attempts: 1},
		{Kind: domain.SyncOwnerEmail, Status: domain.SyncFailed, Attempts: 2, Error: "smtp timeout"},
	}}}

	rec := serve(uc, "/api/v1/appointments/4/sync")
	require.Equal(t, http.StatusOK, rec.Code)

	var body SyncResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(4), body.AppointmentID)
	require.Len(t, body.Tasks, 2)
	assert.Nil(t, body.Tasks[0].Error)
	assert.Equal(t, "smtp timeout", *body.Tasks[1].Error)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		target string
		err    error
		want   int
	}{
		{"/api/v1/appointments/x/sync", nil, http.StatusBadRequest},
		{"/api/v1/appointments/4/sync", retrySync.ErrAppointmentNotFound, http.StatusNotFound},
		{"/api/v1/appointments/4/sync", retrySync.ErrNotSyncable, http.StatusConflict},
		{"/api/v1/appointments/4/sync", retrySync.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := serve(&fakeUseCase{err: tt.err}, tt.target)
		assert.Equal(t, tt.want, rec.Code, tt.target)
	}
}
