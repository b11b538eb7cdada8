package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config параметры SMTP
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer отправляет письма через SMTP
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New создает новый экземпляр отправителя
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send отправляет письмо, одна попытка
// gomail не принимает контекст, поэтому отправка идет в отдельной горутине;
// при истечении ctx метод возвращает ErrTimeout, не дожидаясь SMTP.
// После ErrTimeout доставка не определена: письмо может дойти.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || len(msg.To) == 0 || msg.Subject == "" {
		return ErrInvalidMessage
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		gm.SetHeader("Cc", msg.Cc...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSend, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	}
}
