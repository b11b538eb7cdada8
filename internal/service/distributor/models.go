package distributor

import "github.com/m04kA/SMC-AssistantBooking/internal/domain"

// Request входные данные распределения
type Request struct {
	Tenant           *domain.Tenant
	Booking          *domain.BookingRequest
	PreferredAgentID *int64
	// Exclude агенты, которых нельзя выбирать (например, проигравшие гонку за слот)
	Exclude []int64
}

func (r *Request) excluded(agentID int64) bool {
	for _, id := range r.Exclude {
		if id == agentID {
			return true
		}
	}
	return false
}

// RotationClaim сдвиг указателя round-robin, который применяется вместе с записью
// Запись сохраняется, только если указатель тенанта все еще равен Expected.
type RotationClaim struct {
	Expected int64
	Next     int64
}

// Selection выбранный агент и способ выбора
type Selection struct {
	Agent    *domain.Agent
	Method   domain.DistributionMethod
	Rotation *RotationClaim
}
