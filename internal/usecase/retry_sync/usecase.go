package retry_sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
)

// UseCase повторно запускает незавершенные задачи синхронизации записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	agentRepo       AgentRepository
	sync            SyncDispatcher
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	agentRepo AgentRepository,
	sync SyncDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		agentRepo:       agentRepo,
		sync:            sync,
		logger:          logger,
	}
}

// Execute выполняет повтор синхронизации
// Завершенные задачи не перезапускаются, ошибки задач возвращаются в Results.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RetrySync: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RetrySync: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appointment.Status == domain.StatusCancelled {
		uc.logger.Warn("RetrySync: appointment id=%d is cancelled", req.AppointmentID)
		return nil, ErrNotSyncable
	}

	// Запись без тенанта невозможна, поэтому любая ошибка здесь внутренняя
	tenant, err := uc.tenantRepo.GetByID(ctx, appointment.TenantID)
	if err != nil {
		uc.logger.Error("RetrySync: failed to get tenant id=%d: %v", appointment.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	var agent *domain.Agent
	if agentID, ok := appointment.Owner.AgentID(); ok {
		agent, err = uc.agentRepo.GetByID(ctx, tenant.ID, agentID)
		if err != nil {
			if !errors.Is(err, agentRepo.ErrAgentNotFound) {
				uc.logger.Error("RetrySync: failed to get agent id=%d: %v", agentID, err)
				return nil, fmt.Errorf("%w: failed to get agent: %v", ErrInternal, err)
			}
			uc.logger.Warn("RetrySync: agent id=%d of appointment id=%d not found, syncing without agent",
				agentID, appointment.ID)
			agent = nil
		}
	}

	report := uc.sync.Dispatch(ctx, tenant, appointment, agent)

	uc.logger.Info("RetrySync: appointment id=%d, %d tasks failed", appointment.ID, len(report.Failed()))

	return &Response{AppointmentID: appointment.ID, Results: report.Results}, nil
}
