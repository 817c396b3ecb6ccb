package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/tour-booking/internal/lib/upload"
	"github.com/linemk/tour-booking/internal/service"
)

// CreateTourRequest — обязательные текстовые поля формы нового тура.
// Длительность и цена парсятся отдельно: нечисловой ввод — фатальная ошибка запроса.
type CreateTourRequest struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Location    string `validate:"required"`
}

const maxUploadSize = 10 << 20 // 10 MB на форму с изображением

// TourListHandler обрабатывает GET / — каталог с необязательным фильтром.
// Фильтр по локации имеет приоритет над фильтром по длительности.
func TourListHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TourListHandler"
		logger := log.With(slog.String("op", op))

		location := r.URL.Query().Get("location")
		duration := r.URL.Query().Get("duration")

		list, err := catalogService.List(r.Context(), location, duration)
		if err != nil {
			logger.Error("failed to list tours", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// NewTourHandler обрабатывает GET и POST /new_tour (только для администраторов).
// Изображение необязательно; файл с недопустимым расширением молча отбрасывается,
// тур при этом создаётся без картинки.
func NewTourHandler(log *slog.Logger, catalogService service.CatalogService, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.NewTourHandler"
		logger := log.With(slog.String("op", op))

		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(struct{}{}); err != nil {
				logger.Error("failed to encode response", slog.Any("error", err))
			}
			return
		}

		// форма может прийти и без файла, обычным urlencoded
		if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			logger.Error("invalid request: form parsing error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req := CreateTourRequest{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Location:    r.FormValue("location"),
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		duration, err := strconv.Atoi(r.FormValue("duration"))
		if err != nil {
			logger.Error("invalid duration", slog.String("duration", r.FormValue("duration")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		price, err := strconv.Atoi(r.FormValue("price"))
		if err != nil {
			logger.Error("invalid price", slog.String("price", r.FormValue("price")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		filename := ""
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			name, err := upload.SaveImage(file, header.Filename, uploadDir)
			switch {
			case errors.Is(err, upload.ErrInvalidExtension):
				logger.Warn("image rejected by extension", slog.String("filename", header.Filename))
			case err != nil:
				logger.Error("failed to save image", slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			default:
				filename = name
			}
		}

		input := service.CreateTourInput{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			Duration:    duration,
			Price:       price,
			Image:       filename,
		}
		if _, err := catalogService.Create(r.Context(), input); err != nil {
			logger.Error("failed to create tour", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// DeleteTourHandler обрабатывает POST /delete_tour/{id}. Удаление несуществующего
// тура проходит без ошибки; связки в заказах не трогаются.
func DeleteTourHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteTourHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid tour id", slog.String("id", chi.URLParam(r, "id")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := catalogService.Delete(r.Context(), id); err != nil {
			logger.Error("failed to delete tour", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
