package sessionmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/tour-booking/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

// New создаёт middleware, которое поднимает сессию из хранилища по подписанной куке.
// Если куки нет, подпись не сходится или сессия истекла, создаётся свежая сессия
// и кука выставляется сразу. Кука помечается HttpOnly/SameSite=Lax; флаг Secure
// включается настройкой, локально по http он бы сломал сессию.
func New(log *slog.Logger, store session.Store, secret, cookieName string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if cookie, err := r.Cookie(cookieName); err == nil {
				if sid, err := ParseToken(cookie.Value, secret); err == nil {
					loaded, err := store.Get(r.Context(), sid)
					switch {
					case err == nil:
						sess = loaded
					case errors.Is(err, session.ErrSessionNotFound):
						// истекла в хранилище, ниже заведём новую
					default:
						log.Error("failed to load session", slog.Any("error", err))
						http.Error(w, "internal server error", http.StatusInternalServerError)
						return
					}
				}
			}

			if sess == nil {
				sess = session.New(uuid.NewString())
				token, err := NewToken(sess.ID, secret, ttl)
				if err != nil {
					log.Error("failed to sign session token", slog.Any("error", err))
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext извлекает сессию из контекста запроса.
func FromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok
}
