package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/tour-booking/internal/domain/models"
)

var ErrTourNotFound = errors.New("tour not found")

// TourStorage описывает методы для работы с каталогом туров.
type TourStorage interface {
	GetTours(ctx context.Context) ([]*models.Tour, error)
	GetToursByLocation(ctx context.Context, location string) ([]*models.Tour, error)
	GetToursByDuration(ctx context.Context, duration int) ([]*models.Tour, error)
	// GetLocations возвращает множество различных локаций по всему каталогу.
	GetLocations(ctx context.Context) ([]string, error)
	GetTourByID(ctx context.Context, id int64) (*models.Tour, error)
	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	// DeleteTour удаляет тур; отсутствие строки с таким id не считается ошибкой.
	DeleteTour(ctx context.Context, id int64) error
}

type tourRepository struct {
	db *sql.DB
}

func NewTourRepository(db *sql.DB) TourStorage {
	return &tourRepository{db: db}
}

const tourColumns = "id, name, description, location, duration, price, COALESCE(image, '')"

func (r *tourRepository) queryTours(ctx context.Context, query string, args ...interface{}) ([]*models.Tour, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []*models.Tour
	for rows.Next() {
		tour := &models.Tour{}
		if err := rows.Scan(&tour.ID, &tour.Name, &tour.Description, &tour.Location, &tour.Duration, &tour.Price, &tour.Image); err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) GetTours(ctx context.Context) ([]*models.Tour, error) {
	return r.queryTours(ctx, "SELECT "+tourColumns+" FROM tours ORDER BY id")
}

func (r *tourRepository) GetToursByLocation(ctx context.Context, location string) ([]*models.Tour, error) {
	return r.queryTours(ctx, "SELECT "+tourColumns+" FROM tours WHERE location = $1 ORDER BY id", location)
}

func (r *tourRepository) GetToursByDuration(ctx context.Context, duration int) ([]*models.Tour, error) {
	return r.queryTours(ctx, "SELECT "+tourColumns+" FROM tours WHERE duration = $1 ORDER BY id", duration)
}

func (r *tourRepository) GetLocations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT location FROM tours ORDER BY location")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *tourRepository) GetTourByID(ctx context.Context, id int64) (*models.Tour, error) {
	tour := &models.Tour{}
	row := r.db.QueryRowContext(ctx, "SELECT "+tourColumns+" FROM tours WHERE id = $1", id)
	if err := row.Scan(&tour.ID, &tour.Name, &tour.Description, &tour.Location, &tour.Duration, &tour.Price, &tour.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return tour, nil
}

func (r *tourRepository) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO tours (name, description, location, duration, price, image) VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')) RETURNING id",
		tour.Name, tour.Description, tour.Location, tour.Duration, tour.Price, tour.Image,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	tour.ID = id
	return tour, nil
}

func (r *tourRepository) DeleteTour(ctx context.Context, id int64) error {
	// заказы и корзины на удалённый тур продолжают ссылаться, каскада нет
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tours WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	return nil
}
