package retry_sync

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("retry_sync: appointment not found")

	// ErrNotSyncable возвращается для отмененной записи
	ErrNotSyncable = errors.New("retry_sync: appointment is cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("retry_sync: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("retry_sync: internal error")
)
