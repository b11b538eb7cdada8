package reservation

import "errors"

var (
	// ErrSlotConflict возвращается, когда слот занят параллельным запросом
	// или указатель round-robin уже сдвинут
	ErrSlotConflict = errors.New("reservation: slot conflict")

	// ErrInvalidReservation возвращается при неполных данных записи
	ErrInvalidReservation = errors.New("reservation: invalid reservation")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("reservation: internal error")
)
