package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments/models"
)

// Service сервис для чтения и изменения записей
// Все операции ограничены тенантом: чужая запись считается не найденной
type Service struct {
	appointmentRepo AppointmentRepository
	syncTaskRepo    SyncTaskRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	syncTaskRepo SyncTaskRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		syncTaskRepo:    syncTaskRepo,
		logger:          logger,
	}
}

// GetByID получает запись тенанта вместе с состоянием задач синхронизации
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for tenant=%d", id, tenantID)

	appointment, err := s.get(ctx, "GetByID", tenantID, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.syncTaskRepo.ListByAppointment(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to load sync tasks for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - sync tasks: %v", ErrInternal, err)
	}

	resp := models.FromDomainAppointment(appointment)
	resp.SyncTasks = models.FromDomainSyncTasks(tasks)

	return resp, nil
}

// ListByTenant получает записи тенанта с фильтрацией
//
// Примеры использования:
// - Все активные записи: ListByTenant(ctx, &ListRequest{TenantID: 1})
// - Записи агента на дату: AgentID, StartDate и EndDate на одну дату
// - Включая отмененные: IncludeInactive = true
func (s *Service) ListByTenant(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("ListByTenant: fetching appointments for tenant=%d", req.TenantID)
	if req.AgentID != nil {
		logMsg += fmt.Sprintf(", agent=%d", *req.AgentID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("ListByTenant: end date before start date for tenant=%d", req.TenantID)
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByTenant: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByTenant: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListByTenant - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByTenant: fetched %d appointments for tenant=%d", len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListBySession получает записи, созданные в одном разговоре
func (s *Service) ListBySession(ctx context.Context, tenantID int64, sessionRef string) (*models.AppointmentListResponse, error) {
	sessionRef = strings.TrimSpace(sessionRef)
	if sessionRef == "" {
		return nil, fmt.Errorf("%w: empty session reference", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetBySessionRef(ctx, sessionRef)
	if err != nil {
		s.logger.Error("ListBySession: repository error for session=%s: %v", sessionRef, err)
		return nil, fmt.Errorf("%w: ListBySession - repository error: %v", ErrInternal, err)
	}

	own := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.TenantID == tenantID {
			own = append(own, a)
		}
	}

	return models.FromDomainAppointmentList(own), nil
}

// Cancel отменяет запись и освобождает слот
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d for tenant=%d", id, tenantID)

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	appointment, err := s.get(ctx, "Cancel", tenantID, id)
	if err != nil {
		return err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return nil
}

// UpdateStatus переводит запись pending -> confirmed -> completed
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointment, err := s.get(ctx, "UpdateStatus", tenantID, id)
	if err != nil {
		return err
	}

	if !appointment.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d", appointment.Status, next, id)
		return ErrInvalidTransition
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)
	return nil
}

func (s *Service) get(ctx context.Context, method string, tenantID, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", method, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if appointment.TenantID != tenantID {
		s.logger.Warn("%s: appointment id=%d belongs to another tenant", method, id)
		return nil, ErrAppointmentNotFound
	}

	return appointment, nil
}
