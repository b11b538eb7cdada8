package appointments

import (
	"context"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByTenantWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	GetBySessionRef(ctx context.Context, sessionRef string) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// SyncTaskRepository состояние задач синхронизации записи
type SyncTaskRepository interface {
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.SyncTask, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
