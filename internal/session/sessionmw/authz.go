package sessionmw

import "net/http"

// RejectStyle задаёт реакцию маршрута на отказ в доступе. Стиль фиксируется при
// сборке таблицы маршрутов: страничные маршруты редиректят на /login, а
// маршруты-действия отвечают пустым телом со статусом 400.
type RejectStyle int

const (
	RejectRedirect RejectStyle = iota
	RejectEmptyBadRequest
)

func reject(w http.ResponseWriter, r *http.Request, style RejectStyle) {
	switch style {
	case RejectEmptyBadRequest:
		w.WriteHeader(http.StatusBadRequest)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// RequireAuth пропускает только запросы с аутентифицированной сессией.
func RequireAuth(style RejectStyle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if !ok || !sess.IsAuthenticated() {
				reject(w, r, style)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin(style RejectStyle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if !ok || !sess.Admin {
				reject(w, r, style)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
