package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
)

// userIDHeader заголовок с идентификатором пользователя.
// Значение непрозрачно: его выдаёт сервис аутентификации, здесь оно
// не парсится и не интерпретируется.
const userIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Auth middleware извлекает X-User-ID и кладет его в контекст запроса.
// Запросы без заголовка отклоняются с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает идентификатор пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
