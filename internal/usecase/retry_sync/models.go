package retry_sync

import "github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"

// Request модель запроса на повтор синхронизации
type Request struct {
	AppointmentID int64
}

// Response результаты задач после повтора
type Response struct {
	AppointmentID int64
	Results       []syncdispatch.Result
}
