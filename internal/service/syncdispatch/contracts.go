package syncdispatch

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/calendar"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/mailer"
)

// CalendarClient создание событий во внешнем календаре
type CalendarClient interface {
	CreateEvent(ctx context.Context, event *calendar.Event) (string, error)
}

// Mailer отправка писем
type Mailer interface {
	Send(ctx context.Context, msg *mailer.Message) error
}

// EventPublisher публикация событий в шину
type EventPublisher interface {
	Publish(ctx context.Context, env eventbus.Envelope) error
}

// AppointmentRepository сохранение идентификатора события календаря
type AppointmentRepository interface {
	SetCalendarEventID(ctx context.Context, id int64, eventID string) error
}

// SyncTaskRepository состояние задач синхронизации
type SyncTaskRepository interface {
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.SyncTask, error)
	Upsert(ctx context.Context, task *domain.SyncTask) error
}

// Metrics счетчик задач синхронизации
type Metrics interface {
	ObserveSyncTask(kind, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
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
