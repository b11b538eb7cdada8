package process_message

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("process_message: tenant not found")

	// ErrTenantInactive возвращается, когда тенант отключен
	ErrTenantInactive = errors.New("process_message: tenant is inactive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("process_message: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("process_message: internal error")
)
