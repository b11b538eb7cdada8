package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-AssistantBooking/pkg/requestid"
)

// maxRequestIDLength входящие идентификаторы длиннее заменяются новыми
const maxRequestIDLength = 128

// RequestID берет идентификатор из заголовка или генерирует новый
// Идентификатор попадает в контекст и в заголовок ответа
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" || len(id) > maxRequestIDLength {
			id = requestid.New()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.WithID(r.Context(), id)))
	})
}
