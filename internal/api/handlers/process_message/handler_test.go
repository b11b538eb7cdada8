package process_message

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	processMessage "github.com/m04kA/SMC-AssistantBooking/internal/usecase/process_message"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
)

type fakeUseCase struct {
	got  *processMessage.Request
	resp *processMessage.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *processMessage.Request) (*processMessage.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(t *testing.T, uc *fakeUseCase, tenant, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/tenants/{tenantId}/messages", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/"+tenant+"/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Booked(t *testing.T) {
	uc := &fakeUseCase{resp: &processMessage.Response{
		Text: "C'est noté !",
		Booking: &processMessage.BookingResult{
			Status:         processMessage.StatusBooked,
			Success:        true,
			AppointmentID:  ptr.Ptr(int64(12)),
			CalendarSynced: true,
			Name:           "Bruno Martin",
			Date:           "15/06/2025",
			Time:           "15h00",
		},
	}}

	rec := serve(t, uc, "3", `{"sessionRef":"conv-1","text":"ok","preferredAgentId":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), uc.got.TenantID)
	assert.Equal(t, "conv-1", uc.got.SessionRef)
	assert.Equal(t, ptr.Ptr(int64(5)), uc.got.PreferredAgentID)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "C'est noté !", body["text"])

	booking := body["booking"].(map[string]interface{})
	assert.Equal(t, true, booking["success"])
	assert.Equal(t, float64(12), booking["appointment_id"])
	assert.Equal(t, true, booking["calendar_synced"])
	assert.Equal(t, false, booking["owner_notified"])
	assert.Equal(t, "booked", booking["status"])
	assert.Equal(t, []interface{}{}, booking["errors"])
}

func TestHandle_NoMarker(t *testing.T) {
	uc := &fakeUseCase{resp: &processMessage.Response{Text: "Bonjour"}}

	rec := serve(t, uc, "3", `{"sessionRef":"conv-1","text":"Bonjour"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "booking")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tenant string
		body   string
		err    error
		want   int
	}{
		{"bad tenant", "abc", `{"sessionRef":"s","text":"t"}`, nil, http.StatusBadRequest},
		{"bad body", "3", `{"sessionRef":`, nil, http.StatusBadRequest},
		{"missing session", "3", `{"text":"t"}`, nil, http.StatusBadRequest},
		{"tenant not found", "3", `{"sessionRef":"s","text":"t"}`, processMessage.ErrTenantNotFound, http.StatusNotFound},
		{"tenant inactive", "3", `{"sessionRef":"s","text":"t"}`, processMessage.ErrTenantInactive, http.StatusForbidden},
		{"store failure", "3", `{"sessionRef":"s","text":"t"}`, errors.Join(processMessage.ErrInternal, errors.New("db")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, tt.tenant, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
