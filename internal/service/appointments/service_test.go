package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
)

type fakeRepo struct {
	items      map[int64]*domain.Appointment
	lastFilter domain.AppointmentsFilter
	err        error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeRepo) GetByTenantWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	result := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.TenantID == filter.TenantID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeRepo) GetBySessionRef(_ context.Context, sessionRef string) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if a.SessionRef == sessionRef {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	f.items[id].Status = status
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.items[id].Status = domain.StatusCancelled
	f.items[id].CancellationReason = &reason
	return nil
}

type fakeSyncTasks struct{}

func (fakeSyncTasks) ListByAppointment(_ context.Context, id int64) ([]*domain.SyncTask, error) {
	return []*domain.SyncTask{
		{AppointmentID: id, Kind: domain.SyncCalendar, Status: domain.SyncDone, Attempts: 1},
		{AppointmentID: id, Kind: domain.SyncVisitorEmail, Status: domain.SyncFailed, Attempts: 2, LastError: ptr.Ptr("smtp down")},
	}, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{
		1: {ID: 1, TenantID: 1, Owner: domain.AgentOwner(7), SessionRef: "s-1", VisitorName: "Bruno Martin",
			Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), StartTime: "15:00", DurationMinutes: 30,
			Status: domain.StatusConfirmed, DistributionMethod: domain.MethodAvailability},
		2: {ID: 2, TenantID: 2, Owner: domain.TenantLevel(), SessionRef: "s-1", VisitorName: "Alice",
			Date: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), StartTime: "10:00", DurationMinutes: 30,
			Status: domain.StatusPending, DistributionMethod: domain.MethodSingleAgent},
	}}
	return NewService(repo, fakeSyncTasks{}, logger.NewNop()), repo
}

func TestGetByID(t *testing.T) {
	s, _ := newTestService()

	resp, err := s.GetByID(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-15", resp.Date)
	assert.Equal(t, "15:00", resp.StartTime)
	require.NotNil(t, resp.AgentID)
	assert.Equal(t, int64(7), *resp.AgentID)
	require.Len(t, resp.SyncTasks, 2)
	assert.Equal(t, "failed", resp.SyncTasks[1].Status)
}

func TestGetByID_OtherTenant(t *testing.T) {
	s, _ := newTestService()

	_, err := s.GetByID(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = s.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	s, repo := newTestService()
	repo.err = errors.New("db down")

	_, err := s.GetByID(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestListByTenant_Filter(t *testing.T) {
	s, repo := newTestService()

	resp, err := s.ListByTenant(context.Background(), &models.ListRequest{
		TenantID: 1,
		AgentID:  ptr.Ptr(int64(7)),
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)

	assert.Len(t, resp.Appointments, 1)
	require.NotNil(t, repo.lastFilter.Owner)
	assert.Equal(t, "agent:7", repo.lastFilter.Owner.String())
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)
}

func TestListByTenant_InvalidInput(t *testing.T) {
	s, _ := newTestService()

	_, err := s.ListByTenant(context.Background(), &models.ListRequest{TenantID: 1, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	start := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err = s.ListByTenant(context.Background(), &models.ListRequest{TenantID: 1, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListBySession_ScopedToTenant(t *testing.T) {
	s, _ := newTestService()

	resp, err := s.ListBySession(context.Background(), 1, "s-1")
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestCancel(t *testing.T) {
	s, repo := newTestService()

	require.NoError(t, s.Cancel(context.Background(), 1, 1, &models.CancelRequest{Reason: " empêchement "}))
	assert.Equal(t, domain.StatusCancelled, repo.items[1].Status)
	assert.Equal(t, "empêchement", *repo.items[1].CancellationReason)

	err := s.Cancel(context.Background(), 1, 1, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		tenant  int64
		status  string
		wantErr error
	}{
		{"confirmed to completed", 1, 1, "completed", nil},
		{"pending to confirmed", 2, 2, "confirmed", nil},
		{"pending to completed", 2, 2, "completed", ErrInvalidTransition},
		{"cancel via status", 1, 1, "cancelled", ErrInvalidTransition},
		{"unknown status", 1, 1, "done", ErrInvalidInput},
		{"other tenant", 2, 1, "confirmed", ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService()

			err := s.UpdateStatus(context.Background(), tt.tenant, tt.id, &models.UpdateStatusRequest{Status: tt.status})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
