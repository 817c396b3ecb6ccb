package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/tour-booking/internal/service"
	"github.com/linemk/tour-booking/internal/session/sessionmw"
)

// AddToCartHandler обрабатывает POST /add_to_cart/{id}. Существование тура не
// проверяется, дубликаты допустимы.
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid tour id", slog.String("id", chi.URLParam(r, "id")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := cartService.Add(r.Context(), sess, id); err != nil {
			logger.Error("failed to add tour to cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// RemoveFromCartHandler обрабатывает POST /remove_from_cart/{id}. Тур, которого
// нет в корзине, — общая серверная ошибка, без отдельного ответа клиенту.
func RemoveFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveFromCartHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid tour id", slog.String("id", chi.URLParam(r, "id")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := cartService.Remove(r.Context(), sess, id); err != nil {
			logger.Error("failed to remove tour from cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// CartViewHandler обрабатывает GET /cart. Аутентификация на просмотр корзины
// исторически не требуется.
func CartViewHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CartViewHandler"
		logger := log.With(slog.String("op", op))

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		view, err := cartService.View(r.Context(), sess)
		if err != nil {
			logger.Error("failed to view cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
