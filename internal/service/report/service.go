package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agrismart/internal/domain/models"
	"agrismart/internal/repository/mongodb"
	"agrismart/internal/repository/sheets"
	"agrismart/internal/service/records"
	"agrismart/internal/service/stats"
)

// Service builds and persists daily dashboard snapshots, optionally
// mirroring each one to a spreadsheet.
type Service struct {
	records   *records.Service
	snapshots mongodb.SnapshotRepository
	exporter  sheets.Exporter // nil when sheets export is not configured
	logger    *zap.Logger
}

// NewService wires a report service instance.
func NewService(recordsSvc *records.Service, snapshots mongodb.SnapshotRepository, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:   recordsSvc,
		snapshots: snapshots,
		exporter:  exporter,
		logger:    logger,
	}
}

// BuildSnapshot computes a snapshot of the dashboard stats as of now.
func (s *Service) BuildSnapshot(ctx context.Context, now time.Time) (models.DailySnapshot, error) {
	farmers, err := s.records.ListFarmers(ctx)
	if err != nil {
		return models.DailySnapshot{}, err
	}
	crops, err := s.records.ListCrops(ctx)
	if err != nil {
		return models.DailySnapshot{}, err
	}
	sales, err := s.records.ListSales(ctx)
	if err != nil {
		return models.DailySnapshot{}, err
	}

	computed := stats.Compute(farmers, crops, sales)

	seasonCounts := make(map[string]int, len(computed.SeasonDistribution))
	for _, entry := range computed.SeasonDistribution {
		seasonCounts[string(entry.Season)] = entry.Count
	}

	// Midnight of now's calendar date in its own zone, so a run just after
	// local midnight stamps the new local date rather than the UTC one.
	year, month, day := now.Date()

	return models.DailySnapshot{
		Date:              time.Date(year, month, day, 0, 0, 0, 0, now.Location()),
		TotalFarmers:      computed.TotalFarmers,
		TotalCrops:        computed.TotalCrops,
		TotalSales:        computed.TotalSales,
		TotalRevenue:      computed.TotalRevenue,
		TotalLandArea:     computed.TotalLandArea,
		TotalQuantitySold: computed.TotalQuantitySold,
		SeasonCounts:      seasonCounts,
		CreatedAt:         now,
	}, nil
}

// Run builds today's snapshot, persists it, and mirrors it to the sheet
// when an exporter is configured. A sheet failure does not fail the run.
func (s *Service) Run(ctx context.Context, now time.Time) error {
	snapshot, err := s.BuildSnapshot(ctx, now)
	if err != nil {
		return err
	}

	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return err
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("sheet export failed", zap.Error(err))
		}
	}

	s.logger.Info("daily snapshot persisted",
		zap.Time("date", snapshot.Date),
		zap.Int("farmers", snapshot.TotalFarmers),
		zap.Int("crops", snapshot.TotalCrops),
		zap.Int("sales", snapshot.TotalSales))
	return nil
}
