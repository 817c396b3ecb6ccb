package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/linemk/tour-booking/internal/domain/models"
	"github.com/linemk/tour-booking/internal/storage"
)

// CatalogList — срез каталога под один запрос: отфильтрованные туры плюс полный
// набор локаций для фильтра. Набор локаций не зависит от активного фильтра.
type CatalogList struct {
	Tours     []*models.Tour `json:"tours"`
	Locations []string       `json:"locations"`
}

type CreateTourInput struct {
	Name        string
	Description string
	Location    string
	Duration    int
	Price       int
	Image       string // имя сохранённого файла, может быть пустым
}

type CatalogService interface {
	List(ctx context.Context, location, duration string) (*CatalogList, error)
	Create(ctx context.Context, input CreateTourInput) (*models.Tour, error)
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	log      *slog.Logger
	tourRepo storage.TourStorage
}

func NewCatalogService(log *slog.Logger, tourRepo storage.TourStorage) CatalogService {
	return &catalogService{
		log:      log,
		tourRepo: tourRepo,
	}
}

// List возвращает туры по одному необязательному фильтру равенства.
// Фильтр по локации имеет приоритет: при обоих параметрах длительность игнорируется.
func (s *catalogService) List(ctx context.Context, location, duration string) (*CatalogList, error) {
	const op = "service.CatalogService.List"
	logger := s.log.With(slog.String("op", op))

	var (
		tours []*models.Tour
		err   error
	)
	switch {
	case location != "":
		tours, err = s.tourRepo.GetToursByLocation(ctx, location)
	case duration != "":
		var days int
		days, err = strconv.Atoi(duration)
		if err != nil {
			logger.Error("invalid duration filter", slog.String("duration", duration))
			return nil, fmt.Errorf("%s: invalid duration filter: %w", op, err)
		}
		tours, err = s.tourRepo.GetToursByDuration(ctx, days)
	default:
		tours, err = s.tourRepo.GetTours(ctx)
	}
	if err != nil {
		logger.Error("failed to get tours", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get tours: %w", op, err)
	}

	locations, err := s.tourRepo.GetLocations(ctx)
	if err != nil {
		logger.Error("failed to get locations", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get locations: %w", op, err)
	}

	if tours == nil {
		tours = []*models.Tour{}
	}
	if locations == nil {
		locations = []string{}
	}
	return &CatalogList{Tours: tours, Locations: locations}, nil
}

func (s *catalogService) Create(ctx context.Context, input CreateTourInput) (*models.Tour, error) {
	const op = "service.CatalogService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("name", input.Name))

	tour := &models.Tour{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Duration:    input.Duration,
		Price:       input.Price,
		Image:       input.Image,
	}
	tour, err := s.tourRepo.CreateTour(ctx, tour)
	if err != nil {
		logger.Error("failed to create tour", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create tour: %w", op, err)
	}

	logger.Info("tour created", slog.Int64("tourID", tour.ID))
	return tour, nil
}

// Delete удаляет тур из каталога. Несуществующий id — не ошибка, заказы и
// корзины, ссылающиеся на тур, не трогаются.
func (s *catalogService) Delete(ctx context.Context, id int64) error {
	const op = "service.CatalogService.Delete"

	if err := s.tourRepo.DeleteTour(ctx, id); err != nil {
		s.log.Error("failed to delete tour", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete tour: %w", op, err)
	}
	s.log.Info("tour deleted", slog.String("op", op), slog.Int64("tourID", id))
	return nil
}
