package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/requestid"
)

const (
	// Producer имя сервиса в метаданных события
	Producer = "assistant-booking"

	// TypeAppointmentBooked тип и ключ маршрутизации события о новой записи
	TypeAppointmentBooked = "appointments.booked.v1"
)

// Meta метаданные события
type Meta struct {
	CorrelationID *string   `json:"correlation_id,omitempty"`
	ID            string    `json:"id"`
	Producer      *string   `json:"producer,omitempty"`
	Time          time.Time `json:"time"`
	Type          string    `json:"type"`
}

// Envelope событие в шине
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// AppointmentBooked данные события о новой записи
type AppointmentBooked struct {
	AppointmentID      int64   `json:"appointment_id"`
	TenantID           int64   `json:"tenant_id"`
	AgentID            *int64  `json:"agent_id,omitempty"`
	SessionRef         string  `json:"session_ref"`
	VisitorName        string  `json:"visitor_name"`
	Date               string  `json:"date"`
	StartTime          string  `json:"start_time"`
	DurationMinutes    int     `json:"duration_minutes"`
	Service            *string `json:"service,omitempty"`
	DistributionMethod string  `json:"distribution_method"`
	CalendarEventID    *string `json:"calendar_event_id,omitempty"`
}

// NewAppointmentBooked собирает событие о записи
// Идентификатор события детерминирован, чтобы потребители могли отбросить повтор.
func NewAppointmentBooked(ctx context.Context, a *domain.Appointment, now time.Time) Envelope {
	producer := Producer
	meta := Meta{
		ID:       fmt.Sprintf("appointment-%d-booked", a.ID),
		Producer: &producer,
		Time:     now.UTC(),
		Type:     TypeAppointmentBooked,
	}
	if cid := requestid.FromContext(ctx); cid != "" {
		meta.CorrelationID = &cid
	}

	data := AppointmentBooked{
		AppointmentID:      a.ID,
		TenantID:           a.TenantID,
		SessionRef:         a.SessionRef,
		VisitorName:        a.VisitorName,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Service:            a.Service,
		DistributionMethod: string(a.DistributionMethod),
		CalendarEventID:    a.CalendarEventID,
	}
	if id, ok := a.Owner.AgentID(); ok {
		data.AgentID = &id
	}

	return Envelope{Meta: meta, Data: data}
}
