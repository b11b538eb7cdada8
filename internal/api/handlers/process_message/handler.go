package process_message

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AssistantBooking/internal/api/handlers"
	processMessage "github.com/m04kA/SMC-AssistantBooking/internal/usecase/process_message"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSessionRef  = "sessionRef обязателен"
	msgTenantNotFound     = "тенант не найден"
	msgTenantInactive     = "тенант отключен"
)

type Handler struct {
	useCase ProcessMessageUseCase
	logger  Logger
}

func NewHandler(useCase ProcessMessageUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/messages - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req MessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.SessionRef) == "" {
		h.logger.Warn("POST /tenants/{id}/messages - Missing session ref: tenant_id=%d", tenantID)
		handlers.RespondBadRequest(w, msgMissingSessionRef)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID))
	if err != nil {
		switch {
		case errors.Is(err, processMessage.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/messages - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, processMessage.ErrTenantInactive):
			h.logger.Warn("POST /tenants/{id}/messages - Tenant inactive: tenant_id=%d", tenantID)
			handlers.RespondError(w, http.StatusForbidden, msgTenantInactive)

		case errors.Is(err, processMessage.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/messages - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /tenants/{id}/messages - Failed to process message: tenant_id=%d, session=%s, error=%v",
				tenantID, req.SessionRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	if result.Booking != nil {
		h.logger.Info("POST /tenants/{id}/messages - Booking processed: tenant_id=%d, session=%s, status=%s",
			tenantID, req.SessionRef, result.Booking.Status)
	}
	handlers.RespondJSON(w, http.StatusOK, response)
}
