package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.AgentID != nil && *req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxSlotMinutes {
		return fmt.Errorf("%w: duration must be between 0 and %d", ErrInvalidInput, domain.MaxSlotMinutes)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом (сегодня допустимо)
func validateDate(date time.Time, now time.Time) error {
	today := domain.BusinessDate(now.In(date.Location()), date.Location())
	if date.Before(today) {
		return ErrInvalidDate
	}
	return nil
}
