package domain

import (
	"strings"
	"time"
)

// Agent represents a staff member eligible to receive bookings
// Агенты не удаляются физически, только деактивируются
type Agent struct {
	ID          int64
	TenantID    int64
	Name        string
	Email       *string
	Phone       *string
	Specialties []string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSpecialty returns true if the agent's specialties contain the service (case-insensitive)
func (a *Agent) HasSpecialty(service string) bool {
	service = strings.TrimSpace(service)
	if service == "" {
		return false
	}
	for _, s := range a.Specialties {
		if strings.EqualFold(strings.TrimSpace(s), service) {
			return true
		}
	}
	return false
}

// Owner returns the schedule/appointment owner reference for this agent
func (a *Agent) Owner() OwnerRef {
	return AgentOwner(a.ID)
}
