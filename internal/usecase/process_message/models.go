package process_message

// Request сообщение ассистента в рамках разговора
type Request struct {
	TenantID         int64
	SessionRef       string // идентификатор разговора
	Text             string // ответ ассистента, возможно с блоком бронирования
	PreferredAgentID *int64 // агент, выбранный посетителем (опционально)
}

// Response текст для посетителя и результат бронирования
// Booking равен nil, если в тексте не было блока бронирования
type Response struct {
	Text    string
	Booking *BookingResult
}

// BookingStatus итог попытки бронирования
type BookingStatus string

const (
	StatusBooked      BookingStatus = "booked"
	StatusInvalid     BookingStatus = "invalid"
	StatusNoAgent     BookingStatus = "no_agent"
	StatusUnavailable BookingStatus = "unavailable"
	StatusConflict    BookingStatus = "conflict"
)

// BookingResult результат бронирования
type BookingResult struct {
	Status          BookingStatus
	Success         bool
	AppointmentID   *int64
	AgentID         *int64
	AgentName       string
	CalendarSynced  bool
	OwnerNotified   bool
	VisitorNotified bool

	// Поля заявки для ответа посетителю
	Name    string
	Date    string // JJ/MM/AAAA
	Time    string // HHhMM
	Service string

	// Errors сообщения для посетителя, если запись не создана
	Errors []string
	// Warnings запись создана, но часть синхронизаций не выполнена
	Warnings []string
}
