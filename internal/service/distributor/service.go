package distributor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
)

// Service выбирает агента для заявки по политике тенанта
type Service struct {
	agentRepo       AgentRepository
	appointmentRepo AppointmentRepository
	availability    AvailabilityChecker
	logger          Logger
}

// NewService создает новый экземпляр распределителя
func NewService(
	agentRepo AgentRepository,
	appointmentRepo AppointmentRepository,
	availability AvailabilityChecker,
	logger Logger,
) *Service {
	return &Service{
		agentRepo:       agentRepo,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		logger:          logger,
	}
}

// SelectAgent выбирает агента
//
// Порядок:
// 1. Выбор посетителя, если он разрешен и предпочитаемый агент активен и свободен
// 2. Режим тенанта (для режима visitor_choice - availability):
//   - specialty: агенты со специальностью, равной услуге, и свободным слотом
//   - availability: все активные агенты со свободным слотом
//   - round_robin: строгая очередь по указателю тенанта без учета занятости
//
// Среди нескольких подходящих агентов выбирается тот, кому дольше всего не назначали записи.
// Если никто не подошел, возвращается ErrNoAgentAvailable.
func (s *Service) SelectAgent(ctx context.Context, req *Request) (*Selection, error) {
	tenant := req.Tenant
	policy := tenant.Policy

	if policy.VisitorChoiceEnabled() && req.PreferredAgentID != nil {
		selection, err := s.visitorChoice(ctx, req)
		if err != nil {
			return nil, err
		}
		if selection != nil {
			return selection, nil
		}
		s.logger.Info("SelectAgent: tenant=%d preferred agent=%d not eligible, falling back to %s",
			tenant.ID, *req.PreferredAgentID, policy.FallbackMode())
	}

	agents, err := s.agentRepo.ListByTenant(ctx, tenant.ID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: SelectAgent - list agents: %v", ErrInternal, err)
	}

	candidates := make([]*domain.Agent, 0, len(agents))
	for _, a := range agents {
		if !req.excluded(a.ID) {
			candidates = append(candidates, a)
		}
	}

	switch mode := policy.FallbackMode(); mode {
	case domain.ModeRoundRobin:
		return s.roundRobin(tenant, candidates)
	case domain.ModeSpecialty:
		service := req.Booking.ServiceName()
		if service == "" {
			return s.leastRecentlyAssigned(ctx, req, candidates, domain.MethodAvailability)
		}
		matching := make([]*domain.Agent, 0, len(candidates))
		for _, a := range candidates {
			if a.HasSpecialty(service) {
				matching = append(matching, a)
			}
		}
		if len(matching) == 0 {
			s.logger.Warn("SelectAgent: tenant=%d no active agent with specialty %q", tenant.ID, service)
			return nil, ErrNoAgentAvailable
		}
		return s.leastRecentlyAssigned(ctx, req, matching, domain.MethodSpecialty)
	default:
		return s.leastRecentlyAssigned(ctx, req, candidates, domain.MethodAvailability)
	}
}

// visitorChoice возвращает nil без ошибки, если предпочитаемый агент не подходит
func (s *Service) visitorChoice(ctx context.Context, req *Request) (*Selection, error) {
	id := *req.PreferredAgentID
	if req.excluded(id) {
		return nil, nil
	}

	agent, err := s.agentRepo.GetByID(ctx, req.Tenant.ID, id)
	if err != nil {
		if errors.Is(err, agentRepo.ErrAgentNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: visitorChoice - get agent: %v", ErrInternal, err)
	}
	if !agent.Active || agent.TenantID != req.Tenant.ID {
		return nil, nil
	}

	ok, _, err := s.availability.IsAvailable(ctx, req.Tenant.ID, agent.Owner(), req.Booking.Date, req.Booking.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: visitorChoice - check availability: %v", ErrInternal, err)
	}
	if !ok {
		return nil, nil
	}

	return &Selection{Agent: agent, Method: domain.MethodVisitorChoice}, nil
}

// roundRobin выбирает агента по указателю тенанта (агенты упорядочены по ID)
// Указатель сдвигается только вместе с сохранением записи
func (s *Service) roundRobin(tenant *domain.Tenant, candidates []*domain.Agent) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, ErrNoAgentAvailable
	}

	cursor := tenant.RoundRobinCursor
	if cursor < 0 {
		cursor = 0
	}
	agent := candidates[cursor%int64(len(candidates))]

	return &Selection{
		Agent:    agent,
		Method:   domain.MethodRoundRobin,
		Rotation: &RotationClaim{Expected: tenant.RoundRobinCursor, Next: cursor + 1},
	}, nil
}

// leastRecentlyAssigned оставляет свободных агентов и выбирает того, кому дольше не назначали записи
func (s *Service) leastRecentlyAssigned(ctx context.Context, req *Request, candidates []*domain.Agent, method domain.DistributionMethod) (*Selection, error) {
	available := make([]*domain.Agent, 0, len(candidates))
	for _, a := range candidates {
		ok, _, err := s.availability.IsAvailable(ctx, req.Tenant.ID, a.Owner(), req.Booking.Date, req.Booking.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: leastRecentlyAssigned - check availability: %v", ErrInternal, err)
		}
		if ok {
			available = append(available, a)
		}
	}

	if len(available) == 0 {
		return nil, ErrNoAgentAvailable
	}

	ids := make([]int64, len(available))
	for i, a := range available {
		ids[i] = a.ID
	}

	lastAssigned, err := s.appointmentRepo.LastAssignedAt(ctx, req.Tenant.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: leastRecentlyAssigned - last assignments: %v", ErrInternal, err)
	}

	sortByLastAssigned(available, lastAssigned)

	return &Selection{Agent: available[0], Method: method}, nil
}

// sortByLastAssigned: сначала агенты без записей, затем по времени последней записи, при равенстве по ID
func sortByLastAssigned(agents []*domain.Agent, lastAssigned map[int64]time.Time) {
	sort.SliceStable(agents, func(i, j int) bool {
		ti, oki := lastAssigned[agents[i].ID]
		tj, okj := lastAssigned[agents[j].ID]
		switch {
		case oki != okj:
			return !oki
		case oki && !ti.Equal(tj):
			return ti.Before(tj)
		default:
			return agents[i].ID < agents[j].ID
		}
	})
}
