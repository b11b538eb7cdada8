package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AssistantBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidAgentID  = "некорректный ID агента"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается DD/MM/YYYY"
	msgPastDate        = "дата уже прошла"
	msgInvalidInput    = "некорректные параметры запроса"
	msgTenantNotFound  = "тенант не найден"
	msgTenantInactive  = "тенант отключен"
	msgAgentNotFound   = "агент не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots
// Query params: date (required, DD/MM/YYYY), agentId, duration (минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	agentID, err := handlers.QueryInt64(r, "agentId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(tenantID, agentID, dateStr, query.Get("duration"), h.loc)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrTenantInactive):
			h.logger.Warn("GET /tenants/{id}/available-slots - Tenant inactive: tenant_id=%d", tenantID)
			handlers.RespondError(w, http.StatusForbidden, msgTenantInactive)

		case errors.Is(err, getAvailableSlots.ErrAgentNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Agent not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgAgentNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tenants/{id}/available-slots - Failed to get slots: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/available-slots - Slots retrieved successfully: tenant_id=%d, date=%s, slots_count=%d",
		tenantID, dateStr, countSlots(result))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
