package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID        int64     // ID тенанта
	AgentID         *int64    // Конкретный агент (nil - все активные агенты)
	Date            time.Time // Дата в часовом поясе бизнеса (без времени)
	DurationMinutes int       // Длительность записи (0 - шаг окна расписания)
}

// Response модель ответа со свободными слотами по владельцам
type Response struct {
	TenantID int64
	Date     time.Time
	Owners   []OwnerSlots
}

// OwnerSlots свободные слоты одного владельца расписания
type OwnerSlots struct {
	AgentID   *int64 // nil - расписание тенанта (одиночный специалист)
	AgentName string
	Slots     []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность записи в минутах
}
