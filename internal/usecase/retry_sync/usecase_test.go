package retry_sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
)

type fakeStore struct {
	appointments map[int64]*domain.Appointment
	tenants      map[int64]*domain.Tenant
	agents       map[int64]*domain.Agent
	agentErr     error
}

func (f *fakeStore) GetAppointment(_ context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		return a, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

type appointments struct{ *fakeStore }

func (a appointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return a.GetAppointment(ctx, id)
}

type tenants struct{ *fakeStore }

func (t tenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	if tenant, ok := t.tenants[id]; ok {
		return tenant, nil
	}
	return nil, tenantRepo.ErrTenantNotFound
}

type agents struct{ *fakeStore }

func (a agents) GetByID(_ context.Context, tenantID, id int64) (*domain.Agent, error) {
	if a.agentErr != nil {
		return nil, a.agentErr
	}
	if agent, ok := a.agents[id]; ok && agent.TenantID == tenantID {
		return agent, nil
	}
	return nil, agentRepo.ErrAgentNotFound
}

type fakeSync struct {
	calls  int
	agent  *domain.Agent
	report *syncdispatch.Report
}

func (f *fakeSync) Dispatch(_ context.Context, _ *domain.Tenant, _ *domain.Appointment, agent *domain.Agent) *syncdispatch.Report {
	f.calls++
	f.agent = agent
	return f.report
}

func newFixture() (*fakeStore, *fakeSync, *UseCase) {
	store := &fakeStore{
		appointments: map[int64]*domain.Appointment{
			10: {ID: 10, TenantID: 1, Owner: domain.AgentOwner(3), Status: domain.StatusConfirmed},
			11: {ID: 11, TenantID: 1, Owner: domain.TenantLevel(), Status: domain.StatusCancelled},
			12: {ID: 12, TenantID: 1, Owner: domain.AgentOwner(99), Status: domain.StatusConfirmed},
			13: {ID: 13, TenantID: 7, Owner: domain.TenantLevel(), Status: domain.StatusConfirmed},
		},
		tenants: map[int64]*domain.Tenant{1: {ID: 1, Active: true}},
		agents:  map[int64]*domain.Agent{3: {ID: 3, TenantID: 1, Name: "Alice", Active: true}},
	}
	sync := &fakeSync{report: &syncdispatch.Report{Results: []syncdispatch.Result{
		{Kind: domain.SyncCalendar, Status: domain.SyncDone},
		{Kind: domain.SyncOwnerEmail, Status: domain.SyncFailed, Attempts: 3, Error: "smtp down"},
	}}}
	uc := NewUseCase(appointments{store}, tenants{store}, agents{store}, sync, logger.NewNop())
	return store, sync, uc
}

func TestExecute_DispatchesWithAgent(t *testing.T) {
	_, sync, uc := newFixture()

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, sync.calls)
	require.NotNil(t, sync.agent)
	assert.Equal(t, "Alice", sync.agent.Name)
	assert.Equal(t, int64(10), resp.AppointmentID)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, domain.SyncFailed, resp.Results[1].Status)
}

func TestExecute_MissingAgentSyncsWithoutIt(t *testing.T) {
	_, sync, uc := newFixture()

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 12})
	require.NoError(t, err)

	assert.Equal(t, 1, sync.calls)
	assert.Nil(t, sync.agent)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want error
	}{
		{"invalid id", 0, ErrInvalidInput},
		{"unknown appointment", 404, ErrAppointmentNotFound},
		{"cancelled appointment", 11, ErrNotSyncable},
		{"tenant missing", 13, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sync, uc := newFixture()

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: tt.id})
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, sync.calls)
		})
	}
}

func TestExecute_AgentStorageError(t *testing.T) {
	store, sync, uc := newFixture()
	store.agentErr = errors.New("db down")

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 10})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, sync.calls)
}
