package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header заголовок HTTP с идентификатором запроса
const Header = "X-Request-ID"

type ctxKey struct{}

// New генерирует новый идентификатор
func New() string {
	return uuid.NewString()
}

// WithID сохраняет идентификатор запроса в контексте
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext возвращает идентификатор запроса или пустую строку
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
