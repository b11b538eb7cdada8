package reservation

import "github.com/m04kA/SMC-AssistantBooking/internal/domain"

// Rotation сдвиг указателя round-robin тенанта (compare-and-swap)
type Rotation struct {
	Expected int64
	Next     int64
}

// Reservation данные для сохранения записи
type Reservation struct {
	TenantID        int64
	Owner           domain.OwnerRef
	SessionRef      string
	Request         *domain.BookingRequest
	DurationMinutes int
	Method          domain.DistributionMethod
	// Rotation nil, если запись не назначена по round-robin
	Rotation *Rotation
}
