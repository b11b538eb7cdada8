package retry_sync

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AssistantBooking/internal/api/handlers"
	retrySync "github.com/m04kA/SMC-AssistantBooking/internal/usecase/retry_sync"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgCancelled            = "запись отменена"
)

type Handler struct {
	useCase RetrySyncUseCase
	logger  Logger
}

func NewHandler(useCase RetrySyncUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/sync - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &retrySync.Request{AppointmentID: appointmentID})
	if err != nil {
		switch {
		case errors.Is(err, retrySync.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/sync - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, retrySync.ErrNotSyncable):
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, retrySync.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		default:
			h.logger.Error("POST /appointments/{id}/sync - Failed to retry sync: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/sync - Sync retried: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
