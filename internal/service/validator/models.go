package validator

import "github.com/m04kA/SMC-AssistantBooking/internal/domain"

// OutcomeKind результат разбора заявки
type OutcomeKind int

const (
	// Malformed содержимое блока не является JSON объектом
	Malformed OutcomeKind = iota
	// Invalid объект разобран, но поля не прошли проверку
	Invalid
	// Valid заявка проверена
	Valid
)

func (k OutcomeKind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "malformed"
	}
}

// Outcome результат валидации
// Request заполнен только для Valid, Errors только для Malformed и Invalid
type Outcome struct {
	Kind    OutcomeKind
	Request *domain.BookingRequest
	Errors  domain.FieldErrors

	// Echo исходные значения полей для ответа посетителю
	Echo Echo
}

// Echo значения полей в том виде, в котором их прислал ассистент
type Echo struct {
	Name    string
	Date    string
	Time    string
	Service string
}
