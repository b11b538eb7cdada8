package middleware

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Limiter решает, можно ли обслужить очередной запрос клиента
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
