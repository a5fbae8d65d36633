package records

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
)

// memFarmerRepo is an in-memory stand-in for the mongo-backed repository,
// keeping records newest-first like the real createdAt sort.
type memFarmerRepo struct {
	mu      sync.Mutex
	records []models.Farmer
}

func (r *memFarmerRepo) List(context.Context) ([]models.Farmer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Farmer, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *memFarmerRepo) GetByID(_ context.Context, id string) (*models.Farmer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.records {
		if f.ID.Hex() == id {
			farmer := f
			return &farmer, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *memFarmerRepo) Add(_ context.Context, farmer models.Farmer) (string, error) {
	if err := farmer.Validate(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	farmer.ID = primitive.NewObjectID()
	farmer.CreatedAt = now
	farmer.UpdatedAt = now
	r.records = append([]models.Farmer{farmer}, r.records...)
	return farmer.ID.Hex(), nil
}

func (r *memFarmerRepo) Update(_ context.Context, id string, update models.FarmerUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID.Hex() != id {
			continue
		}
		if update.Name != nil {
			r.records[i].Name = *update.Name
		}
		if update.Phone != nil {
			r.records[i].Phone = *update.Phone
		}
		if update.Address != nil {
			r.records[i].Address = *update.Address
		}
		if update.LandArea != nil {
			r.records[i].LandArea = *update.LandArea
		}
		r.records[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	return apperr.ErrNotFound
}

func (r *memFarmerRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID.Hex() == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type memCropRepo struct{}

func (memCropRepo) List(context.Context) ([]models.Crop, error)            { return []models.Crop{}, nil }
func (memCropRepo) GetByID(context.Context, string) (*models.Crop, error)  { return nil, apperr.ErrNotFound }
func (memCropRepo) Add(_ context.Context, c models.Crop) (string, error)   { return primitive.NewObjectID().Hex(), c.Validate() }
func (memCropRepo) Update(context.Context, string, models.CropUpdate) error { return apperr.ErrNotFound }
func (memCropRepo) Remove(context.Context, string) error                   { return nil }

type memSaleRepo struct{}

func (memSaleRepo) List(context.Context) ([]models.Sale, error)            { return []models.Sale{}, nil }
func (memSaleRepo) GetByID(context.Context, string) (*models.Sale, error)  { return nil, apperr.ErrNotFound }
func (memSaleRepo) Add(_ context.Context, s models.Sale) (string, error)   { return primitive.NewObjectID().Hex(), s.Validate() }
func (memSaleRepo) Update(context.Context, string, models.SaleUpdate) error { return apperr.ErrNotFound }
func (memSaleRepo) Remove(context.Context, string) error                   { return nil }

// stallFirstListRepo snapshots the collection at the start of its first List
// call, then holds that stale result until released. Later writes land in the
// embedded repository while the first read is still in flight.
type stallFirstListRepo struct {
	memFarmerRepo
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (r *stallFirstListRepo) List(ctx context.Context) ([]models.Farmer, error) {
	var stale []models.Farmer
	stalled := false
	r.once.Do(func() {
		stalled = true
		stale, _ = r.memFarmerRepo.List(ctx)
		close(r.started)
		<-r.release
	})
	if stalled {
		return stale, nil
	}
	return r.memFarmerRepo.List(ctx)
}

func newTestService(farmers *memFarmerRepo) *Service {
	return NewService(farmers, memCropRepo{}, memSaleRepo{}, nil)
}

func recvSnapshot[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case snapshot, ok := <-ch:
		require.True(t, ok, "stream ended unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		panic("unreachable")
	}
}

func TestWatchFarmersEmitsInitialSnapshot(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := svc.WatchFarmers(ctx)
	require.NoError(t, err)

	assert.Empty(t, recvSnapshot(t, snapshots))
}

func TestWatchFarmersEmitsOnEveryMutation(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := svc.WatchFarmers(ctx)
	require.NoError(t, err)
	recvSnapshot(t, snapshots) // initial empty snapshot

	id, err := svc.AddFarmer(ctx, models.Farmer{Name: "Ravi Kumar", Phone: "9876543210", Address: "Pune", LandArea: 5})
	require.NoError(t, err)

	snapshot := recvSnapshot(t, snapshots)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Ravi Kumar", snapshot[0].Name)
	assert.False(t, snapshot[0].CreatedAt.IsZero(), "store assigns creation time")

	require.NoError(t, svc.RemoveFarmer(ctx, id))
	assert.Empty(t, recvSnapshot(t, snapshots))
}

func TestWatchFarmersDeliversWriteDuringInitialLoad(t *testing.T) {
	repo := &stallFirstListRepo{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(repo, memCropRepo{}, memSaleRepo{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type watchResult struct {
		snapshots <-chan []models.Farmer
		err       error
	}
	watched := make(chan watchResult, 1)
	go func() {
		snapshots, err := svc.WatchFarmers(ctx)
		watched <- watchResult{snapshots, err}
	}()

	select {
	case <-repo.started:
	case <-time.After(2 * time.Second):
		t.Fatal("initial read never started")
	}

	// The write completes, and notifies, while the first read is in flight.
	_, err := svc.AddFarmer(ctx, models.Farmer{Name: "Ravi Kumar", Phone: "9876543210", Address: "Pune", LandArea: 5})
	require.NoError(t, err)
	close(repo.release)

	result := <-watched
	require.NoError(t, result.err)

	assert.Empty(t, recvSnapshot(t, result.snapshots), "initial snapshot predates the write")

	snapshot := recvSnapshot(t, result.snapshots)
	require.Len(t, snapshot, 1, "a write racing the initial read must still be delivered")
	assert.Equal(t, "Ravi Kumar", snapshot[0].Name)
}

func TestDeleteLeavesOtherRecordsUntouched(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx := context.Background()

	first, err := svc.AddFarmer(ctx, models.Farmer{Name: "Ravi Kumar", Phone: "9876543210", Address: "Pune", LandArea: 5})
	require.NoError(t, err)
	second, err := svc.AddFarmer(ctx, models.Farmer{Name: "Anita Devi", Phone: "9123456780", Address: "Nashik", LandArea: 2})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFarmer(ctx, first))

	remaining, err := svc.ListFarmers(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second, remaining[0].ID.Hex(), "surviving record keeps its identifier")
}

func TestRemoveFarmerIsIdempotent(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx := context.Background()

	id, err := svc.AddFarmer(ctx, models.Farmer{Name: "Ravi Kumar", Phone: "9876543210", Address: "Pune", LandArea: 5})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFarmer(ctx, id))
	require.NoError(t, svc.RemoveFarmer(ctx, id), "second delete of the same id still succeeds")
}

func TestWatchFarmerEmitsNilAfterDelete(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := svc.AddFarmer(ctx, models.Farmer{Name: "Ravi Kumar", Phone: "9876543210", Address: "Pune", LandArea: 5})
	require.NoError(t, err)

	snapshots, err := svc.WatchFarmer(ctx, id)
	require.NoError(t, err)

	doc := recvSnapshot(t, snapshots)
	require.NotNil(t, doc)
	assert.Equal(t, "Ravi Kumar", doc.Name)

	require.NoError(t, svc.RemoveFarmer(ctx, id))
	assert.Nil(t, recvSnapshot(t, snapshots), "deleted document streams as absent")
}

func TestWatchFarmerAbsentFromTheStart(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := svc.WatchFarmer(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, recvSnapshot(t, snapshots))
}

func TestAddFarmerRejectsInvalidRecord(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})

	_, err := svc.AddFarmer(context.Background(), models.Farmer{Name: "", Phone: "9876543210", Address: "Pune", LandArea: 5})

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Field)
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	svc := newTestService(&memFarmerRepo{})
	ctx, cancel := context.WithCancel(context.Background())

	snapshots, err := svc.WatchFarmers(ctx)
	require.NoError(t, err)
	recvSnapshot(t, snapshots)

	cancel()

	select {
	case _, ok := <-snapshots:
		assert.False(t, ok, "stream must close after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancellation")
	}
}
