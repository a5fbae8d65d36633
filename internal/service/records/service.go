package records

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
	"agrismart/internal/repository/mongodb"
)

// Service fronts the three record repositories and owns the change hub:
// every successful write publishes a change tick so live snapshot streams
// re-read their collection.
type Service struct {
	farmers mongodb.FarmerRepository
	crops   mongodb.CropRepository
	sales   mongodb.SaleRepository
	hub     *Hub
	logger  *zap.Logger
}

// NewService wires a records service instance.
func NewService(farmers mongodb.FarmerRepository, crops mongodb.CropRepository, sales mongodb.SaleRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		farmers: farmers,
		crops:   crops,
		sales:   sales,
		hub:     NewHub(),
		logger:  logger,
	}
}

// Farmers ------------------------------------------------------------------

func (s *Service) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	return s.farmers.List(ctx)
}

func (s *Service) GetFarmer(ctx context.Context, id string) (*models.Farmer, error) {
	return s.farmers.GetByID(ctx, id)
}

func (s *Service) AddFarmer(ctx context.Context, farmer models.Farmer) (string, error) {
	id, err := s.farmers.Add(ctx, farmer)
	if err != nil {
		return "", err
	}
	s.hub.Notify(TopicFarmers)
	return id, nil
}

func (s *Service) UpdateFarmer(ctx context.Context, id string, update models.FarmerUpdate) error {
	if err := s.farmers.Update(ctx, id, update); err != nil {
		return err
	}
	s.hub.Notify(TopicFarmers)
	return nil
}

func (s *Service) RemoveFarmer(ctx context.Context, id string) error {
	if err := s.farmers.Remove(ctx, id); err != nil {
		return err
	}
	s.hub.Notify(TopicFarmers)
	return nil
}

// WatchFarmers emits the current snapshot immediately, then a fresh full
// snapshot after every mutation. The stream ends when ctx is done or a
// re-read fails; the subscriber recovers by watching again.
func (s *Service) WatchFarmers(ctx context.Context) (<-chan []models.Farmer, error) {
	return watchCollection(ctx, s, TopicFarmers, s.farmers.List)
}

// WatchFarmer streams one document, emitting nil once it disappears.
func (s *Service) WatchFarmer(ctx context.Context, id string) (<-chan *models.Farmer, error) {
	return watchDocument(ctx, s, TopicFarmers, func(ctx context.Context) (*models.Farmer, error) {
		return s.farmers.GetByID(ctx, id)
	})
}

// Crops --------------------------------------------------------------------

func (s *Service) ListCrops(ctx context.Context) ([]models.Crop, error) {
	return s.crops.List(ctx)
}

func (s *Service) GetCrop(ctx context.Context, id string) (*models.Crop, error) {
	return s.crops.GetByID(ctx, id)
}

func (s *Service) AddCrop(ctx context.Context, crop models.Crop) (string, error) {
	id, err := s.crops.Add(ctx, crop)
	if err != nil {
		return "", err
	}
	s.hub.Notify(TopicCrops)
	return id, nil
}

func (s *Service) UpdateCrop(ctx context.Context, id string, update models.CropUpdate) error {
	if err := s.crops.Update(ctx, id, update); err != nil {
		return err
	}
	s.hub.Notify(TopicCrops)
	return nil
}

func (s *Service) RemoveCrop(ctx context.Context, id string) error {
	if err := s.crops.Remove(ctx, id); err != nil {
		return err
	}
	s.hub.Notify(TopicCrops)
	return nil
}

func (s *Service) WatchCrops(ctx context.Context) (<-chan []models.Crop, error) {
	return watchCollection(ctx, s, TopicCrops, s.crops.List)
}

func (s *Service) WatchCrop(ctx context.Context, id string) (<-chan *models.Crop, error) {
	return watchDocument(ctx, s, TopicCrops, func(ctx context.Context) (*models.Crop, error) {
		return s.crops.GetByID(ctx, id)
	})
}

// Sales --------------------------------------------------------------------

func (s *Service) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.sales.List(ctx)
}

func (s *Service) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *Service) AddSale(ctx context.Context, sale models.Sale) (string, error) {
	id, err := s.sales.Add(ctx, sale)
	if err != nil {
		return "", err
	}
	s.hub.Notify(TopicSales)
	return id, nil
}

func (s *Service) UpdateSale(ctx context.Context, id string, update models.SaleUpdate) error {
	if err := s.sales.Update(ctx, id, update); err != nil {
		return err
	}
	s.hub.Notify(TopicSales)
	return nil
}

func (s *Service) RemoveSale(ctx context.Context, id string) error {
	if err := s.sales.Remove(ctx, id); err != nil {
		return err
	}
	s.hub.Notify(TopicSales)
	return nil
}

func (s *Service) WatchSales(ctx context.Context) (<-chan []models.Sale, error) {
	return watchCollection(ctx, s, TopicSales, s.sales.List)
}

func (s *Service) WatchSale(ctx context.Context, id string) (<-chan *models.Sale, error) {
	return watchDocument(ctx, s, TopicSales, func(ctx context.Context) (*models.Sale, error) {
		return s.sales.GetByID(ctx, id)
	})
}

// watchCollection implements the shared full-snapshot stream loop. The first
// read happens synchronously so callers fail fast when the store is down.
// Subscribing before that read closes the window where a write lands between
// the two; a tick raised during the read only costs one redundant re-read.
func watchCollection[T any](ctx context.Context, s *Service, topic Topic, load func(context.Context) ([]T, error)) (<-chan []T, error) {
	ticks, cancel := s.hub.Subscribe(topic)

	first, err := load(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan []T, 1)
	out <- first

	go func() {
		defer cancel()
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				snapshot, err := load(ctx)
				if err != nil {
					s.logger.Warn("snapshot re-read failed, ending stream",
						zap.String("topic", string(topic)), zap.Error(err))
					return
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// watchDocument implements the single-document stream loop. A missing
// document emits nil rather than ending the stream, matching a record
// deleted mid-subscription.
func watchDocument[T any](ctx context.Context, s *Service, topic Topic, load func(context.Context) (*T, error)) (<-chan *T, error) {
	ticks, cancel := s.hub.Subscribe(topic)

	first, err := load(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		cancel()
		return nil, err
	}

	out := make(chan *T, 1)
	out <- first

	go func() {
		defer cancel()
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				doc, err := load(ctx)
				if err != nil && !errors.Is(err, apperr.ErrNotFound) {
					s.logger.Warn("document re-read failed, ending stream",
						zap.String("topic", string(topic)), zap.Error(err))
					return
				}
				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
