package availability

import "errors"

var (
	// ErrInvalidDuration возвращается при недопустимой длительности слота
	ErrInvalidDuration = errors.New("availability.service: invalid slot duration")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("availability.service: internal error")
)
