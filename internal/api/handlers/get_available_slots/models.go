package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AssistantBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TenantID int64           `json:"tenantId"`
	Date     string          `json:"date"` // "15/06/2025"
	Owners   []OwnerResponse `json:"owners"`
}

// OwnerResponse свободные слоты владельца расписания
type OwnerResponse struct {
	AgentID   *int64         `json:"agentId"` // null - расписание тенанта
	AgentName string         `json:"agentName,omitempty"`
	Slots     []SlotResponse `json:"slots"`
}

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "15:00"
	Label           string `json:"label"`     // "15h00"
	DurationMinutes int    `json:"durationMinutes"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
// Дата в формате DD/MM/YYYY интерпретируется в часовом поясе бизнеса
func ToUseCaseRequest(tenantID int64, agentID *int64, dateStr, durationStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.VisitorDateFormat, dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, fmt.Errorf("parse duration: %w", err)
		}
	}

	return &getAvailableSlots.Request{
		TenantID:        tenantID,
		AgentID:         agentID,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		TenantID: resp.TenantID,
		Date:     resp.Date.Format(domain.VisitorDateFormat),
		Owners:   make([]OwnerResponse, 0, len(resp.Owners)),
	}

	for _, o := range resp.Owners {
		slots := make([]SlotResponse, 0, len(o.Slots))
		for _, s := range o.Slots {
			slots = append(slots, SlotResponse{
				StartTime:       s.StartTime.String(),
				Label:           s.StartTime.HourMark(),
				DurationMinutes: s.DurationMinutes,
			})
		}
		result.Owners = append(result.Owners, OwnerResponse{
			AgentID:   o.AgentID,
			AgentName: o.AgentName,
			Slots:     slots,
		})
	}

	return result
}

func countSlots(resp *getAvailableSlots.Response) int {
	total := 0
	for _, o := range resp.Owners {
		total += len(o.Slots)
	}
	return total
}
