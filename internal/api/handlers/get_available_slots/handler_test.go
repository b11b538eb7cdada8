package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-AssistantBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	paris, _ := time.LoadLocation("Europe/Paris")
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/tenants/{tenantId}/available-slots", NewHandler(uc, paris, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &fakeUseCase{}
	uc.resp = &getAvailableSlots.Response{
		TenantID: 1,
		Date:     time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Owners: []getAvailableSlots.OwnerSlots{{
			Slots: []getAvailableSlots.Slot{{StartTime: "15:00", DurationMinutes: 30}},
		}},
	}

	rec := serve(uc, "/api/v1/tenants/1/available-slots?date=16/06/2025&agentId=4&duration=60")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), *uc.got.AgentID)
	assert.Equal(t, 60, uc.got.DurationMinutes)
	assert.Equal(t, "Europe/Paris", uc.got.Date.Location().String())
	assert.Equal(t, 16, uc.got.Date.Day())

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "16/06/2025", body.Date)
	require.Len(t, body.Owners, 1)
	assert.Nil(t, body.Owners[0].AgentID)
	assert.Equal(t, SlotResponse{StartTime: "15:00", Label: "15h00", DurationMinutes: 30}, body.Owners[0].Slots[0])
}

func TestHandle_BadRequests(t *testing.T) {
	tests := map[string]string{
		"missing date":    "/api/v1/tenants/1/available-slots",
		"iso date":        "/api/v1/tenants/1/available-slots?date=2025-06-16",
		"bad agent":       "/api/v1/tenants/1/available-slots?date=16/06/2025&agentId=x",
		"bad duration":    "/api/v1/tenants/1/available-slots?date=16/06/2025&duration=long",
		"bad tenant":      "/api/v1/tenants/x/available-slots?date=16/06/2025",
		"negative tenant": "/api/v1/tenants/-1/available-slots?date=16/06/2025",
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{getAvailableSlots.ErrTenantNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrAgentNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrTenantInactive, http.StatusForbidden},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, "/api/v1/tenants/1/available-slots?date=16/06/2025")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
