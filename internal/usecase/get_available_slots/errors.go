package get_available_slots

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("get_available_slots: tenant not found")

	// ErrTenantInactive возвращается, когда тенант отключен
	ErrTenantInactive = errors.New("get_available_slots: tenant is inactive")

	// ErrAgentNotFound возвращается, когда агент не найден, отключен или принадлежит другому тенанту
	ErrAgentNotFound = errors.New("get_available_slots: agent not found")

	// ErrInvalidDate возвращается, когда дата уже прошла
	ErrInvalidDate = errors.New("get_available_slots: date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
