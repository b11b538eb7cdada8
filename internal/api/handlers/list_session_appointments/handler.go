package list_session_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AssistantBooking/internal/api/handlers"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/appointments"
)

const (
	msgInvalidTenantID   = "некорректный ID тенанта"
	msgInvalidSessionRef = "некорректный идентификатор разговора"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/sessions/{sessionRef}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /sessions/{ref}/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	sessionRef := mux.Vars(r)["sessionRef"]

	list, err := h.service.ListBySession(r.Context(), tenantID, sessionRef)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSessionRef)

		default:
			h.logger.Error("GET /sessions/{ref}/appointments - Failed to list appointments: tenant_id=%d, session=%s, error=%v",
				tenantID, sessionRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions/{ref}/appointments - Appointments retrieved successfully: tenant_id=%d, session=%s, count=%d",
		tenantID, sessionRef, len(list.Appointments))
	handlers.RespondJSON(w, http.StatusOK, list)
}
