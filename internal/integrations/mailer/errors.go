package mailer

import "errors"

var (
	// ErrInvalidMessage возвращается, если у письма нет получателей или тема пустая
	ErrInvalidMessage = errors.New("mailer: invalid message")

	// ErrRender возвращается при ошибке шаблона письма
	ErrRender = errors.New("mailer: failed to render template")

	// ErrSend возвращается при ошибке SMTP
	ErrSend = errors.New("mailer: failed to send message")

	// ErrTimeout возвращается, если отправка не уложилась в таймаут
	ErrTimeout = errors.New("mailer: send timed out")
)
