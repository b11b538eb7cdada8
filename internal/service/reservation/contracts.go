package reservation

import (
	"context"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

// AppointmentRepository атомарная вставка записи
type AppointmentRepository interface {
	Reserve(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// TenantRepository сдвиг указателя round-robin
type TenantRepository interface {
	AdvanceCursor(ctx context.Context, tenantID, expected, next int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
