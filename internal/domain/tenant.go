package domain

import "time"

// DistributionMode режим распределения заявок между агентами
type DistributionMode string

const (
	ModeRoundRobin    DistributionMode = "round_robin"
	ModeAvailability  DistributionMode = "availability"
	ModeSpecialty     DistributionMode = "specialty"
	ModeVisitorChoice DistributionMode = "visitor_choice"
)

// IsValid returns true for a known distribution mode
func (m DistributionMode) IsValid() bool {
	switch m {
	case ModeRoundRobin, ModeAvailability, ModeSpecialty, ModeVisitorChoice:
		return true
	default:
		return false
	}
}

// DistributionPolicy политика распределения тенанта
type DistributionPolicy struct {
	Mode               DistributionMode
	AllowVisitorChoice bool
}

// VisitorChoiceEnabled returns true if a visitor-preferred agent may be honoured
func (p DistributionPolicy) VisitorChoiceEnabled() bool {
	return p.Mode == ModeVisitorChoice || p.AllowVisitorChoice
}

// FallbackMode режим, который применяется, если выбор посетителя не подошел
// Для режима visitor_choice запасным является availability
func (p DistributionPolicy) FallbackMode() DistributionMode {
	if p.Mode == ModeVisitorChoice || !p.Mode.IsValid() {
		return ModeAvailability
	}
	return p.Mode
}

// Tenant represents a business subscribed to the service
type Tenant struct {
	ID                int64
	Name              string
	Active            bool
	Policy            DistributionPolicy
	CalendarID        *string // NULL = синхронизация с календарем не настроена
	NotificationEmail *string // NULL = владелец не получает уведомления
	RoundRobinCursor  int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasCalendar returns true if the tenant has an external calendar configured
func (t *Tenant) HasCalendar() bool {
	return t.CalendarID != nil && *t.CalendarID != ""
}

// HasNotificationEmail returns true if the owner should be notified by e-mail
func (t *Tenant) HasNotificationEmail() bool {
	return t.NotificationEmail != nil && *t.NotificationEmail != ""
}
