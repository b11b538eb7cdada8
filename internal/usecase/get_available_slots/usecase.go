package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
	tenantRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/availability"
)

// UseCase use case для получения свободных слотов тенанта
type UseCase struct {
	tenantRepo   TenantRepository
	agentRepo    AgentRepository
	slots        SlotLister
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	agentRepo AgentRepository,
	slots SlotLister,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		tenantRepo:   tenantRepo,
		agentRepo:    agentRepo,
		slots:        slots,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
//
// Владельцы расписаний:
//   - указан агент: только его расписание
//   - у тенанта нет агентов: расписание тенанта
//   - иначе: все активные агенты по возрастанию ID
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, date=%s, duration=%d",
		req.TenantID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetAvailableSlots: tenant=%d date %s is in the past", req.TenantID, req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 2. Тенант
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.Active {
		uc.logger.Warn("GetAvailableSlots: tenant id=%d is inactive", req.TenantID)
		return nil, ErrTenantInactive
	}

	// 3. Владельцы расписаний
	owners, err := uc.owners(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Слоты каждого владельца
	response := &Response{
		TenantID: req.TenantID,
		Date:     req.Date,
		Owners:   make([]OwnerSlots, 0, len(owners)),
	}

	total := 0
	for _, o := range owners {
		set, err := uc.slots.ListSlots(ctx, req.TenantID, o.ref, req.Date, req.DurationMinutes)
		if err != nil {
			if errors.Is(err, availability.ErrInvalidDuration) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("GetAvailableSlots: failed to list slots for %s: %v", o.ref, err)
			return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		slots := make([]Slot, 0, set.Len())
		for slot := range set.Slots() {
			slots = append(slots, Slot{StartTime: slot.Start, DurationMinutes: slot.DurationMinutes})
		}
		total += len(slots)

		response.Owners = append(response.Owners, OwnerSlots{
			AgentID:   o.ref.Nullable(),
			AgentName: o.name,
			Slots:     slots,
		})
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for %d owners, tenant=%d, date=%s",
		total, len(owners), req.TenantID, req.Date.Format(domain.DateFormat))

	return response, nil
}

type owner struct {
	ref  domain.OwnerRef
	name string
}

func (uc *UseCase) owners(ctx context.Context, req *Request) ([]owner, error) {
	if req.AgentID != nil {
		agent, err := uc.agentRepo.GetByID(ctx, req.TenantID, *req.AgentID)
		if err != nil {
			if errors.Is(err, agentRepo.ErrAgentNotFound) {
				uc.logger.Warn("GetAvailableSlots: agent id=%d not found in tenant=%d", *req.AgentID, req.TenantID)
				return nil, ErrAgentNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get agent id=%d: %v", *req.AgentID, err)
			return nil, fmt.Errorf("%w: failed to get agent: %v", ErrInternal, err)
		}
		if !agent.Active || agent.TenantID != req.TenantID {
			return nil, ErrAgentNotFound
		}
		return []owner{{ref: agent.Owner(), name: agent.Name}}, nil
	}

	count, err := uc.agentRepo.CountByTenant(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count agents of tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to count agents: %v", ErrInternal, err)
	}
	if count == 0 {
		return []owner{{ref: domain.TenantLevel()}}, nil
	}

	agents, err := uc.agentRepo.ListByTenant(ctx, req.TenantID, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list agents of tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to list agents: %v", ErrInternal, err)
	}

	result := make([]owner, 0, len(agents))
	for _, a := range agents {
		result = append(result, owner{ref: a.Owner(), name: a.Name})
	}
	return result, nil
}
