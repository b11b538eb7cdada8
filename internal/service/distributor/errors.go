package distributor

import "errors"

var (
	// ErrNoAgentAvailable возвращается, когда политика не нашла ни одного агента
	ErrNoAgentAvailable = errors.New("distributor: no agent available")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("distributor: internal error")
)
