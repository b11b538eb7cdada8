package list_appointments

import (
	"context"

	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByTenant(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
