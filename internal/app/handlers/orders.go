package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/linemk/tour-booking/internal/domain/models"
	"github.com/linemk/tour-booking/internal/service"
	"github.com/linemk/tour-booking/internal/session/sessionmw"
)

// PlaceOrderRequest — форма оформления заказа
type PlaceOrderRequest struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Date    string `validate:"required"`
	Comment string
}

const orderDateLayout = "2006-01-02"

// OrderListResponse — список заказов с флагом только что оформленного заказа
type OrderListResponse struct {
	Orders      []*models.Order `json:"orders"`
	JustOrdered bool            `json:"just_ordered"`
}

// PlaceOrderHandler обрабатывает POST /cart: оформляет заказ из корзины текущей
// сессии и очищает её. Пустая корзина заказ не отменяет.
func PlaceOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		req := PlaceOrderRequest{
			Name:    r.FormValue("name"),
			Email:   r.FormValue("email"),
			Date:    r.FormValue("date"),
			Comment: r.FormValue("comment"),
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		numOfPeople, err := strconv.Atoi(r.FormValue("num_of_people"))
		if err != nil {
			logger.Error("invalid num_of_people", slog.String("num_of_people", r.FormValue("num_of_people")))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		date, err := time.Parse(orderDateLayout, req.Date)
		if err != nil {
			logger.Error("invalid date", slog.String("date", req.Date))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		input := service.PlaceOrderInput{
			Name:        req.Name,
			Email:       req.Email,
			NumOfPeople: numOfPeople,
			Date:        date,
			Comment:     req.Comment,
		}
		if _, err := orderService.Place(r.Context(), sess, input); err != nil {
			logger.Error("failed to place order", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/orders?placed=1", http.StatusSeeOther)
	}
}

// OrderListHandler обрабатывает GET /orders: администратор видит все заказы,
// обычный пользователь — только свои.
func OrderListHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderListHandler"
		logger := log.With(slog.String("op", op))

		sess, ok := sessionmw.FromContext(r.Context())
		if !ok {
			logger.Error("session not found in context")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		orders, err := orderService.List(r.Context(), sess.UserID, sess.Admin)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := OrderListResponse{
			Orders:      orders,
			JustOrdered: r.URL.Query().Get("placed") == "1",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
