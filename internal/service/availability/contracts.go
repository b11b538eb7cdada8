package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

// ScheduleRepository источник расписаний владельцев
type ScheduleRepository interface {
	ResolveDayPlan(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) (*domain.DayPlan, error)
}

// AppointmentRepository источник занятых слотов
type AppointmentRepository interface {
	ListActiveByOwnerAndDate(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
