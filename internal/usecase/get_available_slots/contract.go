package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/availability"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// AgentRepository интерфейс репозитория агентов
type AgentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Agent, error)
	ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Agent, error)
	CountByTenant(ctx context.Context, tenantID int64) (int, error)
}

// SlotLister вычисляет свободные слоты владельца
type SlotLister interface {
	ListSlots(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, duration int) (availability.SlotSet, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
