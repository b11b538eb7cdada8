package calendar

import "time"

// Event событие календаря для созданной записи
type Event struct {
	CalendarID    string
	AppointmentID int64
	Title         string
	Description   string
	Start         time.Time
	End           time.Time
	Attendee      Attendee
	Service       string
}

// Attendee контакт посетителя
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type createEventRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	DurationMinutes int      `json:"duration_minutes"`
	TimeZone        string   `json:"time_zone"`
	Attendee        Attendee `json:"attendee"`
	Service         string   `json:"service,omitempty"`
	ExternalRef     string   `json:"external_ref"`
}

type createEventResponse struct {
	ID string `json:"id"`
}
