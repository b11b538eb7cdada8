package distributor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

type fakeAgents struct {
	agents []*domain.Agent
	err    error
}

func (f *fakeAgents) ListByTenant(_ context.Context, tenantID int64, activeOnly bool) ([]*domain.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Agent, 0)
	for _, a := range f.agents {
		if a.TenantID == tenantID && (!activeOnly || a.Active) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAgents) GetByID(_ context.Context, tenantID, id int64) (*domain.Agent, error) {
	for _, a := range f.agents {
		if a.ID == id && a.TenantID == tenantID {
			return a, nil
		}
	}
	return nil, agentRepo.ErrAgentNotFound
}

type fakeHistory struct {
	last map[int64]time.Time
}

func (f *fakeHistory) LastAssignedAt(_ context.Context, _ int64, agentIDs []int64) (map[int64]time.Time, error) {
	result := make(map[int64]time.Time)
	for _, id := range agentIDs {
		if at, ok := f.last[id]; ok {
			result[id] = at
		}
	}
	return result, nil
}

type fakeAvailability struct {
	busy map[int64]bool
}

func (f *fakeAvailability) IsAvailable(_ context.Context, _ int64, owner domain.OwnerRef, _ time.Time, _ types.TimeString) (bool, int, error) {
	id, _ := owner.AgentID()
	if f.busy[id] {
		return false, 0, nil
	}
	return true, 30, nil
}

const tenantID = 1

func agent(id int64, specialties ...string) *domain.Agent {
	return &domain.Agent{ID: id, TenantID: tenantID, Name: "Agent", Active: true, Specialties: specialties}
}

func booking(service string) *domain.BookingRequest {
	req := &domain.BookingRequest{
		Name: "Bruno Martin",
		Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Time: "15:00",
	}
	if service != "" {
		req.Service = &service
	}
	return req
}

func newService(agents []*domain.Agent, busy map[int64]bool, last map[int64]time.Time) *Service {
	return NewService(
		&fakeAgents{agents: agents},
		&fakeHistory{last: last},
		&fakeAvailability{busy: busy},
		logger.NewNop(),
	)
}

func tenantWith(mode domain.DistributionMode) *domain.Tenant {
	return &domain.Tenant{ID: tenantID, Active: true, Policy: domain.DistributionPolicy{Mode: mode}}
}

func TestSelectAgent_RoundRobinStrictRotation(t *testing.T) {
	s := newService([]*domain.Agent{agent(1), agent(2), agent(3)}, map[int64]bool{2: true}, nil)
	tenant := tenantWith(domain.ModeRoundRobin)

	picked := make([]int64, 0, 6)
	for range 6 {
		selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tenant, Booking: booking("")})
		require.NoError(t, err)
		require.NotNil(t, selection.Rotation)

		assert.Equal(t, domain.MethodRoundRobin, selection.Method)
		assert.Equal(t, tenant.RoundRobinCursor, selection.Rotation.Expected)
		assert.Equal(t, tenant.RoundRobinCursor+1, selection.Rotation.Next)

		picked = append(picked, selection.Agent.ID)
		tenant.RoundRobinCursor = selection.Rotation.Next
	}

	// Агент 2 занят, но round-robin выбирает его без учета занятости
	assert.Equal(t, []int64{1, 2, 3, 1, 2, 3}, picked)
}

func TestSelectAgent_RoundRobinExclude(t *testing.T) {
	s := newService([]*domain.Agent{agent(1), agent(2), agent(3)}, nil, nil)
	tenant := tenantWith(domain.ModeRoundRobin)
	tenant.RoundRobinCursor = 4

	selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tenant, Booking: booking(""), Exclude: []int64{2}})
	require.NoError(t, err)

	assert.Equal(t, int64(1), selection.Agent.ID)
	assert.Equal(t, RotationClaim{Expected: 4, Next: 5}, *selection.Rotation)
}

func TestSelectAgent_RoundRobinNoAgents(t *testing.T) {
	inactive := agent(1)
	inactive.Active = false
	s := newService([]*domain.Agent{inactive}, nil, nil)

	_, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeRoundRobin), Booking: booking("")})
	assert.ErrorIs(t, err, ErrNoAgentAvailable)
}

func TestSelectAgent_AvailabilityLeastRecentlyAssigned(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agents := []*domain.Agent{agent(1), agent(2), agent(3), agent(4)}

	tests := []struct {
		name string
		busy map[int64]bool
		last map[int64]time.Time
		want int64
	}{
		{
			name: "never assigned agent first",
			last: map[int64]time.Time{1: now, 2: now.Add(-time.Hour), 4: now.Add(-2 * time.Hour)},
			want: 3,
		},
		{
			name: "oldest assignment wins",
			last: map[int64]time.Time{1: now, 2: now.Add(-time.Hour), 3: now.Add(-3 * time.Hour), 4: now.Add(-2 * time.Hour)},
			want: 3,
		},
		{
			name: "busy agents are skipped",
			busy: map[int64]bool{3: true},
			last: map[int64]time.Time{1: now, 2: now.Add(-time.Hour), 3: now.Add(-3 * time.Hour), 4: now.Add(-2 * time.Hour)},
			want: 4,
		},
		{
			name: "ties broken by lowest id",
			last: map[int64]time.Time{1: now, 2: now, 3: now, 4: now},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(agents, tt.busy, tt.last)

			selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeAvailability), Booking: booking("")})
			require.NoError(t, err)

			assert.Equal(t, tt.want, selection.Agent.ID)
			assert.Equal(t, domain.MethodAvailability, selection.Method)
			assert.Nil(t, selection.Rotation)
		})
	}
}

func TestSelectAgent_AvailabilityAllBusy(t *testing.T) {
	s := newService([]*domain.Agent{agent(1), agent(2)}, map[int64]bool{1: true, 2: true}, nil)

	_, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeAvailability), Booking: booking("")})
	assert.ErrorIs(t, err, ErrNoAgentAvailable)
}

func TestSelectAgent_Specialty(t *testing.T) {
	agents := []*domain.Agent{agent(1, "Électricité"), agent(2, "plomberie", "devis"), agent(3, "Plomberie")}

	t.Run("matching specialty case-insensitive", func(t *testing.T) {
		s := newService(agents, map[int64]bool{2: true}, nil)

		selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeSpecialty), Booking: booking(" PLOMBERIE ")})
		require.NoError(t, err)

		assert.Equal(t, int64(3), selection.Agent.ID)
		assert.Equal(t, domain.MethodSpecialty, selection.Method)
	})

	t.Run("only active agent lacks the specialty", func(t *testing.T) {
		s := newService([]*domain.Agent{agent(1, "électricité")}, nil, nil)

		_, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeSpecialty), Booking: booking("plomberie")})
		assert.ErrorIs(t, err, ErrNoAgentAvailable)
	})

	t.Run("empty service behaves as availability", func(t *testing.T) {
		s := newService(agents, nil, nil)

		selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeSpecialty), Booking: booking("")})
		require.NoError(t, err)

		assert.Equal(t, int64(1), selection.Agent.ID)
		assert.Equal(t, domain.MethodAvailability, selection.Method)
	})
}

func TestSelectAgent_VisitorChoice(t *testing.T) {
	inactive := agent(4)
	inactive.Active = false
	foreign := &domain.Agent{ID: 5, TenantID: 2, Active: true}
	agents := []*domain.Agent{agent(1), agent(2), agent(3), inactive, foreign}
	busy := map[int64]bool{3: true}

	tests := []struct {
		name       string
		tenant     *domain.Tenant
		preferred  *int64
		wantAgent  int64
		wantMethod domain.DistributionMethod
	}{
		{"preferred agent honoured", tenantWith(domain.ModeVisitorChoice), ptr.Ptr(int64(2)), 2, domain.MethodVisitorChoice},
		{"busy preferred falls back to availability", tenantWith(domain.ModeVisitorChoice), ptr.Ptr(int64(3)), 1, domain.MethodAvailability},
		{"inactive preferred falls back", tenantWith(domain.ModeVisitorChoice), ptr.Ptr(int64(4)), 1, domain.MethodAvailability},
		{"agent of another tenant falls back", tenantWith(domain.ModeVisitorChoice), ptr.Ptr(int64(5)), 1, domain.MethodAvailability},
		{"unknown agent falls back", tenantWith(domain.ModeVisitorChoice), ptr.Ptr(int64(99)), 1, domain.MethodAvailability},
		{"no preference", tenantWith(domain.ModeVisitorChoice), nil, 1, domain.MethodAvailability},
		{
			"allowed on top of round robin",
			&domain.Tenant{ID: tenantID, Policy: domain.DistributionPolicy{Mode: domain.ModeRoundRobin, AllowVisitorChoice: true}},
			ptr.Ptr(int64(2)), 2, domain.MethodVisitorChoice,
		},
		{"ignored when not allowed", tenantWith(domain.ModeRoundRobin), ptr.Ptr(int64(2)), 1, domain.MethodRoundRobin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(agents, busy, nil)

			selection, err := s.SelectAgent(context.Background(), &Request{Tenant: tt.tenant, Booking: booking(""), PreferredAgentID: tt.preferred})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAgent, selection.Agent.ID)
			assert.Equal(t, tt.wantMethod, selection.Method)
		})
	}
}

func TestSelectAgent_StorageError(t *testing.T) {
	s := NewService(&fakeAgents{err: errors.New("db down")}, &fakeHistory{}, &fakeAvailability{}, logger.NewNop())

	_, err := s.SelectAgent(context.Background(), &Request{Tenant: tenantWith(domain.ModeAvailability), Booking: booking("")})
	assert.ErrorIs(t, err, ErrInternal)
}
