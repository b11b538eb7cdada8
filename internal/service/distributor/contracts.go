package distributor

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// AgentRepository интерфейс репозитория агентов
type AgentRepository interface {
	ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Agent, error)
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Agent, error)
}

// AppointmentRepository интерфейс для истории назначений
type AppointmentRepository interface {
	LastAssignedAt(ctx context.Context, tenantID int64, agentIDs []int64) (map[int64]time.Time, error)
}

// AvailabilityChecker проверка свободного слота владельца
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, t types.TimeString) (bool, int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
