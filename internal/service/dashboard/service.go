package dashboard

import (
	"context"

	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/repository/mongodb"
	"agrismart/internal/service/records"
	"agrismart/internal/service/stats"
)

// Service assembles dashboard state from the three record collections and
// serves the persisted snapshot history.
type Service struct {
	records   *records.Service
	snapshots mongodb.SnapshotRepository
	logger    *zap.Logger
}

// NewService wires a dashboard service instance.
func NewService(recordsSvc *records.Service, snapshots mongodb.SnapshotRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: recordsSvc, snapshots: snapshots, logger: logger}
}

// Stats computes the dashboard state once from fresh reads of all three
// collections.
func (s *Service) Stats(ctx context.Context) (models.DashboardStats, error) {
	farmers, err := s.records.ListFarmers(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	crops, err := s.records.ListCrops(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	sales, err := s.records.ListSales(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	return stats.Compute(farmers, crops, sales), nil
}

// Watch streams recomputed dashboard stats. The three collection streams
// are independent and may arrive in any order, so nothing is emitted until
// each has delivered its initial snapshot; after that every arrival on any
// stream produces a fresh emission.
func (s *Service) Watch(ctx context.Context) (<-chan models.DashboardStats, error) {
	farmersCh, err := s.records.WatchFarmers(ctx)
	if err != nil {
		return nil, err
	}
	cropsCh, err := s.records.WatchCrops(ctx)
	if err != nil {
		return nil, err
	}
	salesCh, err := s.records.WatchSales(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan models.DashboardStats, 1)

	go func() {
		defer close(out)

		var (
			farmers []models.Farmer
			crops   []models.Crop
			sales   []models.Sale
		)
		loaded := 0
		haveFarmers, haveCrops, haveSales := false, false, false

		emit := func() {
			if loaded < 3 {
				return
			}
			snapshot := stats.Compute(farmers, crops, sales)
			select {
			case out <- snapshot:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-farmersCh:
				if !ok {
					return
				}
				farmers = snap
				if !haveFarmers {
					haveFarmers = true
					loaded++
				}
				emit()
			case snap, ok := <-cropsCh:
				if !ok {
					return
				}
				crops = snap
				if !haveCrops {
					haveCrops = true
					loaded++
				}
				emit()
			case snap, ok := <-salesCh:
				if !ok {
					return
				}
				sales = snap
				if !haveSales {
					haveSales = true
					loaded++
				}
				emit()
			}
		}
	}()

	return out, nil
}

// History returns the most recent persisted daily snapshots.
func (s *Service) History(ctx context.Context, limit int64) ([]models.DailySnapshot, error) {
	return s.snapshots.List(ctx, limit)
}
