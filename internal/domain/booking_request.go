package domain

import (
	"time"

	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// BookingRequest проверенная заявка посетителя, извлеченная из ответа ассистента
// Никогда не сохраняется, если не прошла валидацию
type BookingRequest struct {
	Name    string
	Phone   *string
	Email   *string
	Date    time.Time // дата в часовом поясе бизнеса (00:00)
	Time    types.TimeString
	Service *string
}

// ServiceName возвращает услугу или пустую строку
func (r *BookingRequest) ServiceName() string {
	if r.Service == nil {
		return ""
	}
	return *r.Service
}

// Поля заявки, которые упоминаются в ошибках валидации
const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldEmail   = "email"
	FieldDate    = "date"
	FieldTime    = "time"
	FieldService = "service"
	FieldPayload = "payload"
)

// FieldError ошибка валидации одного поля с сообщением для посетителя
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors упорядоченный список ошибок валидации
type FieldErrors []FieldError

// Messages возвращает сообщения для посетителя в исходном порядке
func (e FieldErrors) Messages() []string {
	messages := make([]string, len(e))
	for i, fe := range e {
		messages[i] = fe.Message
	}
	return messages
}

// Has returns true if one of the errors concerns the given field
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}
