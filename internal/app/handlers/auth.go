package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/tour-booking/internal/service"
	"github.com/linemk/tour-booking/internal/session/sessionmw"
)

// RegisterRequest представляет форму регистрации с тегами валидации
type RegisterRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginRequest представляет форму входа
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse — флаг ошибки для формы входа (страница входа отдаёт 200 и при
// неверных учётных данных, различие только во флаге)
type LoginResponse struct {
	Error bool `json:"error"`
}

var validate = validator.New()

// dropLogin сбрасывает текущую аутентификацию: заход на /register и /login
// разлогинивает уже вошедшего пользователя
func dropLogin(r *http.Request, authService service.AuthService) error {
	sess, ok := sessionmw.FromContext(r.Context())
	if !ok || !sess.IsAuthenticated() {
		return nil
	}
	return authService.Logout(r.Context(), sess)
}

// RegisterHandler обрабатывает GET и POST /register
func RegisterHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		if err := dropLogin(r, authService); err != nil {
			logger.Error("failed to drop current login", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(LoginResponse{Error: false}); err != nil {
				logger.Error("failed to encode response", slog.Any("error", err))
			}
			return
		}

		req := RegisterRequest{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		if err := authService.Register(r.Context(), req.Username, req.Password); err != nil {
			// в том числе занятое имя пользователя: предварительной проверки нет
			logger.Error("registration failed", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// LoginHandler обрабатывает GET и POST /login
func LoginHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		if err := dropLogin(r, authService); err != nil {
			logger.Error("failed to drop current login", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(LoginResponse{Error: false}); err != nil {
				logger.Error("failed to encode response", slog.Any("error", err))
			}
			return
		}

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		req := LoginRequest{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		if err := authService.Login(r.Context(), sess, req.Username, req.Password); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				// форма входа перерисовывается с флагом ошибки, сессия не создаётся
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(LoginResponse{Error: true}); err != nil {
					logger.Error("failed to encode response", slog.Any("error", err))
				}
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// LogoutHandler обрабатывает GET /logout, маршрут закрыт аутентификацией
func LogoutHandler(log *slog.Logger, authService service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LogoutHandler"
		logger := log.With(slog.String("op", op))

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := authService.Logout(r.Context(), sess); err != nil {
			logger.Error("logout failed", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
