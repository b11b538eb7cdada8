package calendar

import "errors"

var (
	// ErrRejected возвращается, когда календарь отклонил запрос (4xx, кроме 408 и 429)
	// Повтор такого запроса бессмысленен
	ErrRejected = errors.New("calendar client: request rejected")

	// ErrUnavailable возвращается при сетевых ошибках, таймаутах и ответах 5xx, 408, 429
	ErrUnavailable = errors.New("calendar client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от календаря
	ErrInvalidResponse = errors.New("calendar client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendar client: internal error")
)
