package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
	tenantRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/tenant"
)

// Service сохраняет запись без двойного бронирования
//
// Гарантия обеспечивается только базой данных: частичный уникальный индекс по
// (tenant, agent, date, time) среди неотмененных записей и условный UPDATE указателя
// round-robin в той же транзакции. Блокировок в памяти процесса нет, поэтому
// несколько экземпляров сервиса могут работать одновременно.
type Service struct {
	appointmentRepo AppointmentRepository
	tenantRepo      TenantRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записи
func NewService(
	appointmentRepo AppointmentRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tenantRepo:      tenantRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Reserve сохраняет запись со статусом confirmed
// Проигрыш гонки за слот или за указатель round-robin возвращает ErrSlotConflict.
func (s *Service) Reserve(ctx context.Context, r *Reservation) (*domain.Appointment, error) {
	if r == nil || r.Request == nil || r.DurationMinutes <= 0 {
		return nil, ErrInvalidReservation
	}

	appointment := &domain.Appointment{
		TenantID:           r.TenantID,
		Owner:              r.Owner,
		SessionRef:         r.SessionRef,
		VisitorName:        r.Request.Name,
		VisitorPhone:       r.Request.Phone,
		VisitorEmail:       r.Request.Email,
		Date:               r.Request.Date,
		StartTime:          r.Request.Time,
		DurationMinutes:    r.DurationMinutes,
		Service:            r.Request.Service,
		Status:             domain.StatusConfirmed,
		DistributionMethod: r.Method,
	}

	var created *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if r.Rotation != nil {
			if err := s.tenantRepo.AdvanceCursor(ctx, r.TenantID, r.Rotation.Expected, r.Rotation.Next); err != nil {
				if errors.Is(err, tenantRepo.ErrCursorMoved) {
					return ErrSlotConflict
				}
				return fmt.Errorf("%w: Reserve - advance cursor: %v", ErrInternal, err)
			}
		}

		result, err := s.appointmentRepo.Reserve(ctx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			return fmt.Errorf("%w: Reserve - insert appointment: %v", ErrInternal, err)
		}

		created = result
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Warn("Reserve: conflict for tenant=%d owner=%s date=%s time=%s",
				r.TenantID, r.Owner, r.Request.Date.Format(domain.DateFormat), r.Request.Time)
			return nil, ErrSlotConflict
		}
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Reserve: tenant=%d: %v", r.TenantID, err)
			return nil, err
		}
		s.logger.Error("Reserve: transaction failed for tenant=%d: %v", r.TenantID, err)
		return nil, fmt.Errorf("%w: Reserve - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("Reserve: appointment id=%d created for tenant=%d owner=%s date=%s time=%s",
		created.ID, created.TenantID, created.Owner, created.Date.Format(domain.DateFormat), created.StartTime)

	return created, nil
}
