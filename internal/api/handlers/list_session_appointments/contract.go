package list_session_appointments

import (
	"context"

	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments/models"
)

type AppointmentService interface {
	ListBySession(ctx context.Context, tenantID int64, sessionRef string) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
