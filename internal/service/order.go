package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/tour-booking/internal/domain/models"
	"github.com/linemk/tour-booking/internal/session"
	"github.com/linemk/tour-booking/internal/storage"
)

type PlaceOrderInput struct {
	Name        string
	Email       string
	NumOfPeople int
	Date        time.Time
	Comment     string
}

type OrderService interface {
	Place(ctx context.Context, sess *session.Session, input PlaceOrderInput) (int64, error)
	List(ctx context.Context, userID int64, admin bool) ([]*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	tourRepo  storage.TourStorage
	orderRepo storage.OrderStorage
	sessions  session.Store
}

func NewOrderService(log *slog.Logger, db *sql.DB, tourRepo storage.TourStorage, orderRepo storage.OrderStorage, sessions session.Store) OrderService {
	return &orderService{
		log:       log,
		db:        db,
		tourRepo:  tourRepo,
		orderRepo: orderRepo,
		sessions:  sessions,
	}
}

// Place оформляет заказ из корзины текущей сессии. Туры, удалённые из каталога,
// пропускаются. Заказ создаётся даже при пустой корзине — тогда без единой
// связки с туром. Корзина очищается безусловно.
func (s *orderService) Place(ctx context.Context, sess *session.Session, input PlaceOrderInput) (int64, error) {
	const op = "service.OrderService.Place"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", sess.UserID))

	var tourIDs []int64
	for _, tourID := range sess.Cart {
		if _, err := s.tourRepo.GetTourByID(ctx, tourID); err != nil {
			if errors.Is(err, storage.ErrTourNotFound) {
				logger.Warn("tour no longer exists", slog.Int64("tourID", tourID))
				continue
			}
			logger.Error("failed to get tour", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to get tour: %w", op, err)
		}
		tourIDs = append(tourIDs, tourID)
	}
	if len(tourIDs) == 0 {
		logger.Warn("placing order with empty cart")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order := &models.Order{
		UserID:      sess.UserID,
		Name:        input.Name,
		Email:       input.Email,
		NumOfPeople: input.NumOfPeople,
		Date:        input.Date,
		Comment:     input.Comment,
	}
	orderID, err := s.orderRepo.CreateOrder(ctx, tx, order, tourIDs)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	sess.ClearCart()
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Error("failed to save session", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to save session: %w", op, err)
	}

	logger.Info("order placed", slog.Int64("orderID", orderID), slog.Int("tours", len(tourIDs)))
	return orderID, nil
}

// List возвращает заказы: администратору — все, остальным — только свои.
func (s *orderService) List(ctx context.Context, userID int64, admin bool) ([]*models.Order, error) {
	const op = "service.OrderService.List"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	var (
		orders []*models.Order
		err    error
	)
	if admin {
		orders, err = s.orderRepo.GetAllOrders(ctx)
	} else {
		orders, err = s.orderRepo.GetOrdersByUserID(ctx, userID)
	}
	if err != nil {
		logger.Error("failed to get orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}

	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}
