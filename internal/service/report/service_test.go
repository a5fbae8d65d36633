package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrismart/internal/domain/models"
	"agrismart/internal/service/records"
)

// fixedFarmerRepo and friends serve an immutable data set; the report
// service only ever lists.
type fixedFarmerRepo struct{ farmers []models.Farmer }

func (r *fixedFarmerRepo) List(context.Context) ([]models.Farmer, error)       { return r.farmers, nil }
func (r *fixedFarmerRepo) GetByID(context.Context, string) (*models.Farmer, error) {
	return nil, errors.New("not implemented")
}
func (r *fixedFarmerRepo) Add(context.Context, models.Farmer) (string, error) {
	return "", errors.New("not implemented")
}
func (r *fixedFarmerRepo) Update(context.Context, string, models.FarmerUpdate) error {
	return errors.New("not implemented")
}
func (r *fixedFarmerRepo) Remove(context.Context, string) error { return errors.New("not implemented") }

type fixedCropRepo struct{ crops []models.Crop }

func (r *fixedCropRepo) List(context.Context) ([]models.Crop, error) { return r.crops, nil }
func (r *fixedCropRepo) GetByID(context.Context, string) (*models.Crop, error) {
	return nil, errors.New("not implemented")
}
func (r *fixedCropRepo) Add(context.Context, models.Crop) (string, error) {
	return "", errors.New("not implemented")
}
func (r *fixedCropRepo) Update(context.Context, string, models.CropUpdate) error {
	return errors.New("not implemented")
}
func (r *fixedCropRepo) Remove(context.Context, string) error { return errors.New("not implemented") }

type fixedSaleRepo struct{ sales []models.Sale }

func (r *fixedSaleRepo) List(context.Context) ([]models.Sale, error) { return r.sales, nil }
func (r *fixedSaleRepo) GetByID(context.Context, string) (*models.Sale, error) {
	return nil, errors.New("not implemented")
}
func (r *fixedSaleRepo) Add(context.Context, models.Sale) (string, error) {
	return "", errors.New("not implemented")
}
func (r *fixedSaleRepo) Update(context.Context, string, models.SaleUpdate) error {
	return errors.New("not implemented")
}
func (r *fixedSaleRepo) Remove(context.Context, string) error { return errors.New("not implemented") }

type memSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []models.DailySnapshot
	saveErr   error
}

func (r *memSnapshotRepo) Save(_ context.Context, snapshot models.DailySnapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *memSnapshotRepo) List(_ context.Context, limit int64) ([]models.DailySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.DailySnapshot{}, r.snapshots...)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingExporter struct {
	appended []models.DailySnapshot
	err      error
}

func (e *recordingExporter) AppendSnapshot(_ context.Context, snapshot models.DailySnapshot) error {
	if e.err != nil {
		return e.err
	}
	e.appended = append(e.appended, snapshot)
	return nil
}

func newTestRecords() *records.Service {
	farmers := &fixedFarmerRepo{farmers: []models.Farmer{
		{Name: "Ravi Kumar", Phone: "9876543210", Address: "Hoskote", LandArea: 2.5},
		{Name: "Meena Devi", Phone: "9876501234", Address: "Devanahalli", LandArea: 1.5},
	}}
	crops := &fixedCropRepo{crops: []models.Crop{
		{CropName: "Wheat", Type: models.CropGrain, Season: models.SeasonRabi, Quantity: 100, Price: 30},
		{CropName: "Rice", Type: models.CropGrain, Season: models.SeasonKharif, Quantity: 300, Price: 25},
	}}
	sales := &fixedSaleRepo{sales: []models.Sale{
		{FarmerName: "Ravi Kumar", CropName: "Wheat", QuantitySold: 100, TotalPrice: 3000, Date: "2026-08-20"},
	}}
	return records.NewService(farmers, crops, sales, nil)
}

func TestBuildSnapshot(t *testing.T) {
	svc := NewService(newTestRecords(), &memSnapshotRepo{}, nil, nil)
	now := time.Date(2026, time.August, 29, 20, 0, 0, 0, time.UTC)

	snapshot, err := svc.BuildSnapshot(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC), snapshot.Date)
	assert.Equal(t, 2, snapshot.TotalFarmers)
	assert.Equal(t, 2, snapshot.TotalCrops)
	assert.Equal(t, 1, snapshot.TotalSales)
	assert.Equal(t, 3000.0, snapshot.TotalRevenue)
	assert.Equal(t, 4.0, snapshot.TotalLandArea)
	assert.Equal(t, 100.0, snapshot.TotalQuantitySold)
	assert.Equal(t, 1, snapshot.SeasonCounts[string(models.SeasonRabi)])
	assert.Equal(t, 1, snapshot.SeasonCounts[string(models.SeasonKharif)])
	assert.Equal(t, 0, snapshot.SeasonCounts[string(models.SeasonZaid)])
}

func TestBuildSnapshotDateFollowsLocalZone(t *testing.T) {
	svc := NewService(newTestRecords(), &memSnapshotRepo{}, nil, nil)

	// Half past midnight IST is still the previous evening in UTC; the
	// snapshot must carry the local calendar date.
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, time.August, 30, 0, 30, 0, 0, ist)

	snapshot, err := svc.BuildSnapshot(context.Background(), now)
	require.NoError(t, err)

	assert.True(t, snapshot.Date.Equal(time.Date(2026, time.August, 30, 0, 0, 0, 0, ist)))
	assert.Equal(t, 30, snapshot.Date.Day())
}

func TestRunPersistsAndExports(t *testing.T) {
	snapshots := &memSnapshotRepo{}
	exporter := &recordingExporter{}
	svc := NewService(newTestRecords(), snapshots, exporter, nil)

	err := svc.Run(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, snapshots.snapshots, 1)
	require.Len(t, exporter.appended, 1)
	assert.Equal(t, snapshots.snapshots[0].TotalFarmers, exporter.appended[0].TotalFarmers)
}

func TestRunWithoutExporter(t *testing.T) {
	snapshots := &memSnapshotRepo{}
	svc := NewService(newTestRecords(), snapshots, nil, nil)

	require.NoError(t, svc.Run(context.Background(), time.Now().UTC()))
	assert.Len(t, snapshots.snapshots, 1)
}

func TestRunSheetFailureIsNotFatal(t *testing.T) {
	snapshots := &memSnapshotRepo{}
	exporter := &recordingExporter{err: errors.New("sheet unavailable")}
	svc := NewService(newTestRecords(), snapshots, exporter, nil)

	require.NoError(t, svc.Run(context.Background(), time.Now().UTC()))
	assert.Len(t, snapshots.snapshots, 1, "the snapshot is persisted regardless")
}

func TestRunSaveFailure(t *testing.T) {
	snapshots := &memSnapshotRepo{saveErr: errors.New("mongo down")}
	svc := NewService(newTestRecords(), snapshots, nil, nil)

	require.Error(t, svc.Run(context.Background(), time.Now().UTC()))
}
