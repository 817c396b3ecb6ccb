package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// UploadsHandler обрабатывает GET /uploads/{name}: отдаёт файл из каталога
// загрузок по имени.
func UploadsHandler(log *slog.Logger, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UploadsHandler"

		name := chi.URLParam(r, "name")
		if name == "" {
			log.Error("file name is missing", slog.String("op", op))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		http.ServeFile(w, r, filepath.Join(uploadDir, name))
	}
}
