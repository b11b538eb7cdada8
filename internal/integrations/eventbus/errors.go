package eventbus

import "errors"

var (
	// ErrConnect возвращается, если не удалось подключиться к брокеру
	ErrConnect = errors.New("eventbus: failed to connect")

	// ErrPublish возвращается при ошибке публикации
	ErrPublish = errors.New("eventbus: failed to publish")

	// ErrNack возвращается, если брокер не подтвердил сообщение
	ErrNack = errors.New("eventbus: message not acknowledged")

	// ErrClosed возвращается после Close
	ErrClosed = errors.New("eventbus: publisher closed")
)
