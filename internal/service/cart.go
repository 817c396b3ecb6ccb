package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/tour-booking/internal/domain/models"
	"github.com/linemk/tour-booking/internal/session"
	"github.com/linemk/tour-booking/internal/storage"
)

// CartView — содержимое корзины: позиции в порядке добавления и сумма по
// текущим ценам каталога.
type CartView struct {
	Tours      []*models.Tour `json:"tours"`
	TotalPrice int            `json:"total_price"`
}

type CartService interface {
	Add(ctx context.Context, sess *session.Session, tourID int64) error
	Remove(ctx context.Context, sess *session.Session, tourID int64) error
	View(ctx context.Context, sess *session.Session) (*CartView, error)
}

type cartService struct {
	log      *slog.Logger
	tourRepo storage.TourStorage
	sessions session.Store
}

func NewCartService(log *slog.Logger, tourRepo storage.TourStorage, sessions session.Store) CartService {
	return &cartService{
		log:      log,
		tourRepo: tourRepo,
		sessions: sessions,
	}
}

// Add кладёт тур в корзину. Существование тура не проверяется, повторное
// добавление даёт отдельную позицию.
func (s *cartService) Add(ctx context.Context, sess *session.Session, tourID int64) error {
	const op = "service.CartService.Add"

	sess.AddToCart(tourID)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Error("failed to save session", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}
	s.log.Info("tour added to cart", slog.String("op", op), slog.Int64("tourID", tourID))
	return nil
}

// Remove убирает первое вхождение тура из корзины. Отсутствие тура в корзине —
// ошибка session.ErrNotInCart.
func (s *cartService) Remove(ctx context.Context, sess *session.Session, tourID int64) error {
	const op = "service.CartService.Remove"
	logger := s.log.With(slog.String("op", op), slog.Int64("tourID", tourID))

	if err := sess.RemoveFromCart(tourID); err != nil {
		logger.Warn("tour is not in the cart")
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Error("failed to save session", slog.Any("error", err))
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}
	logger.Info("tour removed from cart")
	return nil
}

// View разрешает корзину в туры каталога. Туры, удалённые после добавления,
// молча пропускаются; сумма считается по текущим ценам.
func (s *cartService) View(ctx context.Context, sess *session.Session) (*CartView, error) {
	const op = "service.CartService.View"
	logger := s.log.With(slog.String("op", op))

	view := &CartView{Tours: []*models.Tour{}}
	for _, tourID := range sess.Cart {
		tour, err := s.tourRepo.GetTourByID(ctx, tourID)
		if err != nil {
			if errors.Is(err, storage.ErrTourNotFound) {
				logger.Warn("tour no longer exists", slog.Int64("tourID", tourID))
				continue
			}
			logger.Error("failed to get tour", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to get tour: %w", op, err)
		}
		view.Tours = append(view.Tours, tour)
		view.TotalPrice += tour.Price
	}
	return view, nil
}
