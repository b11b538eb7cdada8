package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListRequest запрос на получение записей тенанта
type ListRequest struct {
	TenantID        int64
	AgentID         *int64     // Фильтр по агенту (опционально)
	TenantLevel     bool       // Только записи без агента
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		TenantID:        r.TenantID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	switch {
	case r.AgentID != nil:
		owner := domain.AgentOwner(*r.AgentID)
		filter.Owner = &owner
	case r.TenantLevel:
		owner := domain.TenantLevel()
		filter.Owner = &owner
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	TenantID           int64   `json:"tenantId"`
	AgentID            *int64  `json:"agentId,omitempty"`
	SessionRef         string  `json:"sessionRef"`
	VisitorName        string  `json:"visitorName"`
	VisitorPhone       *string `json:"visitorPhone,omitempty"`
	VisitorEmail       *string `json:"visitorEmail,omitempty"`
	Date               string  `json:"date"`      // "2025-06-15"
	StartTime          string  `json:"startTime"` // "15:00"
	DurationMinutes    int     `json:"durationMinutes"`
	Service            *string `json:"service,omitempty"`
	Status             string  `json:"status"`
	DistributionMethod string  `json:"distributionMethod"`
	CalendarEventID    *string `json:"calendarEventId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	SyncTasks []SyncTaskResponse `json:"syncTasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncTaskResponse состояние задачи синхронизации
type SyncTaskResponse struct {
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError *string   `json:"lastError,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		TenantID:           a.TenantID,
		AgentID:            a.Owner.Nullable(),
		SessionRef:         a.SessionRef,
		VisitorName:        a.VisitorName,
		VisitorPhone:       a.VisitorPhone,
		VisitorEmail:       a.VisitorEmail,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Service:            a.Service,
		Status:             string(a.Status),
		DistributionMethod: string(a.DistributionMethod),
		CalendarEventID:    a.CalendarEventID,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// FromDomainSyncTasks конвертирует задачи синхронизации в DTO
func FromDomainSyncTasks(tasks []*domain.SyncTask) []SyncTaskResponse {
	result := make([]SyncTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, SyncTaskResponse{
			Kind:      string(t.Kind),
			Status:    string(t.Status),
			Attempts:  t.Attempts,
			LastError: t.LastError,
			UpdatedAt: t.UpdatedAt,
		})
	}
	return result
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	switch s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
