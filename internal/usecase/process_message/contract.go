package process_message

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/availability"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/distributor"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/marker"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/reservation"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/validator"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// MarkerExtractor вырезает блок бронирования из текста ассистента
type MarkerExtractor interface {
	Extract(text string) (string, marker.Payload)
}

// RequestValidator разбирает и проверяет заявку
type RequestValidator interface {
	Parse(raw string) validator.Outcome
}

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// AgentRepository интерфейс репозитория агентов
type AgentRepository interface {
	CountByTenant(ctx context.Context, tenantID int64) (int, error)
}

// AgentDistributor выбор агента по политике тенанта
type AgentDistributor interface {
	SelectAgent(ctx context.Context, req *distributor.Request) (*distributor.Selection, error)
}

// AvailabilityChecker проверка свободного слота
type AvailabilityChecker interface {
	Check(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, t types.TimeString) (availability.Verdict, error)
}

// ReservationWriter атомарное сохранение записи
type ReservationWriter interface {
	Reserve(ctx context.Context, r *reservation.Reservation) (*domain.Appointment, error)
}

// SyncDispatcher внешние синхронизации после бронирования
type SyncDispatcher interface {
	Dispatch(ctx context.Context, tenant *domain.Tenant, appointment *domain.Appointment, agent *domain.Agent) *syncdispatch.Report
}

// Metrics счетчик результатов бронирования
type Metrics interface {
	ObserveBookingOutcome(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
