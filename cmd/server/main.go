package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/linemk/tour-booking/internal/app"
	"github.com/linemk/tour-booking/internal/app/handlers"
	"github.com/linemk/tour-booking/internal/config"
	"github.com/linemk/tour-booking/internal/lib/logger"
	"github.com/linemk/tour-booking/internal/lib/logger/handlers/urllog"
	"github.com/linemk/tour-booking/internal/service"
	"github.com/linemk/tour-booking/internal/session"
	"github.com/linemk/tour-booking/internal/session/sessionmw"
	"github.com/linemk/tour-booking/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

func main() {
	// .env подхватывается, если он есть
	_ = godotenv.Load()

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения: конфиг, подключение к БД и к Redis
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()
	defer application.Redis.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	sessionStore := session.NewRedisStore(application.Redis, cfg.Session.TTL)
	router.Use(sessionmw.New(log, sessionStore, cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.CookieSecure))

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	tourRepo := storage.NewTourRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	authService := service.NewAuthService(log, userRepo, sessionStore)
	catalogService := service.NewCatalogService(log, tourRepo)
	cartService := service.NewCartService(log, tourRepo, sessionStore)
	orderService := service.NewOrderService(log, application.DB, tourRepo, orderRepo, sessionStore)

	// маршруты без аутентификации
	registerHandler := handlers.RegisterHandler(log, authService)
	router.Get("/register", registerHandler)
	router.Post("/register", registerHandler)
	loginHandler := handlers.LoginHandler(log, authService)
	router.Get("/login", loginHandler)
	router.Post("/login", loginHandler)
	// просмотр корзины исторически не требует входа
	router.Get("/cart", handlers.CartViewHandler(log, cartService))
	router.Get("/uploads/{name}", handlers.UploadsHandler(log, cfg.Uploads.Dir))

	// страничные маршруты: отказ в доступе — редирект на /login
	router.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireAuth(sessionmw.RejectRedirect))
		r.Get("/", handlers.TourListHandler(log, catalogService))
		r.Get("/logout", handlers.LogoutHandler(log, authService))
		r.Post("/cart", handlers.PlaceOrderHandler(log, orderService))
		r.Get("/orders", handlers.OrderListHandler(log, orderService))
	})

	router.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireAdmin(sessionmw.RejectRedirect))
		newTourHandler := handlers.NewTourHandler(log, catalogService, cfg.Uploads.Dir)
		r.Get("/new_tour", newTourHandler)
		r.Post("/new_tour", newTourHandler)
	})

	// маршруты-действия: отказ в доступе — пустой ответ 400
	router.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireAuth(sessionmw.RejectEmptyBadRequest))
		r.Post("/add_to_cart/{id}", handlers.AddToCartHandler(log, cartService))
		r.Post("/remove_from_cart/{id}", handlers.RemoveFromCartHandler(log, cartService))
	})

	router.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireAuth(sessionmw.RejectEmptyBadRequest))
		r.Use(sessionmw.RequireAdmin(sessionmw.RejectEmptyBadRequest))
		r.Post("/delete_tour/{id}", handlers.DeleteTourHandler(log, catalogService))
	})

	handler := cors.Default().Handler(router)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
