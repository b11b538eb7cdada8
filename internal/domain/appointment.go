package domain

import (
	"time"

	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// DistributionMethod способ, которым была выбрана запись агенту
type DistributionMethod string

const (
	MethodRoundRobin    DistributionMethod = "round_robin"
	MethodAvailability  DistributionMethod = "availability"
	MethodSpecialty     DistributionMethod = "specialty"
	MethodVisitorChoice DistributionMethod = "visitor_choice"
	MethodSingleAgent   DistributionMethod = "single_agent"
)

// Appointment represents a reserved slot
type Appointment struct {
	ID         int64
	TenantID   int64
	Owner      OwnerRef
	SessionRef string

	VisitorName  string
	VisitorPhone *string
	VisitorEmail *string

	Date            time.Time // дата в часовом поясе бизнеса (00:00)
	StartTime       types.TimeString
	DurationMinutes int
	Service         *string

	Status             AppointmentStatus
	DistributionMethod DistributionMethod
	CalendarEventID    *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo returns true if the status change is allowed
// pending -> confirmed -> completed; отмена идет через Cancel
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch next {
	case StatusConfirmed:
		return a.Status == StatusPending
	case StatusCompleted:
		return a.Status == StatusConfirmed
	default:
		return false
	}
}

// HasCalendarEvent returns true if the appointment was already written to the calendar
func (a *Appointment) HasCalendarEvent() bool {
	return a.CalendarEventID != nil && *a.CalendarEventID != ""
}

// StartsAt возвращает момент начала записи
func (a *Appointment) StartsAt() time.Time {
	return a.StartTime.On(a.Date)
}

// EndsAt возвращает момент окончания записи
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt().Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// AppointmentsFilter фильтр для получения записей тенанта
type AppointmentsFilter struct {
	TenantID        int64              // Обязательный параметр
	Owner           *OwnerRef          // nil - все владельцы
	StartDate       *time.Time         // nil - без ограничения
	EndDate         *time.Time         // nil - без ограничения
	Status          *AppointmentStatus // nil - любой статус
	IncludeInactive bool               // включать отмененные записи
}
