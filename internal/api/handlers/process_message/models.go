package process_message

import (
	processMessage "github.com/m04kA/SMC-AssistantBooking/internal/usecase/process_message"
)

// MessageRequest HTTP request model
type MessageRequest struct {
	SessionRef       string `json:"sessionRef"`
	Text             string `json:"text"`
	PreferredAgentID *int64 `json:"preferredAgentId,omitempty"`
}

// MessageResponse HTTP response model
type MessageResponse struct {
	Text    string           `json:"text"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

// BookingResponse результат бронирования
type BookingResponse struct {
	Status          string   `json:"status"`
	Success         bool     `json:"success"`
	AppointmentID   *int64   `json:"appointment_id"`
	AgentID         *int64   `json:"agent_id,omitempty"`
	AgentName       string   `json:"agent_name,omitempty"`
	CalendarSynced  bool     `json:"calendar_synced"`
	OwnerNotified   bool     `json:"owner_notified"`
	VisitorNotified bool     `json:"visitor_notified"`
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Service         string   `json:"service"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MessageRequest) ToUseCaseRequest(tenantID int64) *processMessage.Request {
	return &processMessage.Request{
		TenantID:         tenantID,
		SessionRef:       r.SessionRef,
		Text:             r.Text,
		PreferredAgentID: r.PreferredAgentID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *processMessage.Response) *MessageResponse {
	result := &MessageResponse{Text: resp.Text}
	if resp.Booking == nil {
		return result
	}

	b := resp.Booking
	errs := b.Errors
	if errs == nil {
		errs = []string{}
	}

	result.Booking = &BookingResponse{
		Status:          string(b.Status),
		Success:         b.Success,
		AppointmentID:   b.AppointmentID,
		AgentID:         b.AgentID,
		AgentName:       b.AgentName,
		CalendarSynced:  b.CalendarSynced,
		OwnerNotified:   b.OwnerNotified,
		VisitorNotified: b.VisitorNotified,
		Name:            b.Name,
		Date:            b.Date,
		Time:            b.Time,
		Service:         b.Service,
		Errors:          errs,
		Warnings:        b.Warnings,
	}
	return result
}
