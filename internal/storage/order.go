package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/tour-booking/internal/domain/models"
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ и строки связки с турами в рамках переданной транзакции.
	// Пустой список туров допустим: заказ создаётся без единой связки.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order, tourIDs []int64) (int64, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	GetAllOrders(ctx context.Context) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order, tourIDs []int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, name, email, num_of_people, date, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id`,
		order.UserID, order.Name, order.Email, order.NumOfPeople, order.Date, order.Comment,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, tourID := range tourIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_tours (order_id, tour_id) VALUES ($1, $2)", id, tourID); err != nil {
			return 0, fmt.Errorf("failed to link tour to order: %w", err)
		}
	}
	return id, nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	return r.queryOrders(ctx,
		`SELECT id, user_id, name, email, num_of_people, date, comment, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) GetAllOrders(ctx context.Context) ([]*models.Order, error) {
	return r.queryOrders(ctx,
		`SELECT id, user_id, name, email, num_of_people, date, comment, created_at
		 FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	byID := make(map[int64]*models.Order)
	var ids []int64
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Name, &order.Email, &order.NumOfPeople, &order.Date, &order.Comment, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Внутренний JOIN с tours: висячие связки на удалённые туры просто выпадают.
	tourRows, err := r.db.QueryContext(ctx,
		`SELECT ot.order_id, t.id, t.name, t.description, t.location, t.duration, t.price, COALESCE(t.image, '')
		 FROM order_tours ot
		 JOIN tours t ON t.id = ot.tour_id
		 WHERE ot.order_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer tourRows.Close()

	for tourRows.Next() {
		var orderID int64
		tour := &models.Tour{}
		if err := tourRows.Scan(&orderID, &tour.ID, &tour.Name, &tour.Description, &tour.Location, &tour.Duration, &tour.Price, &tour.Image); err != nil {
			return nil, err
		}
		if order, ok := byID[orderID]; ok {
			order.Tours = append(order.Tours, tour)
		}
	}
	if err := tourRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
