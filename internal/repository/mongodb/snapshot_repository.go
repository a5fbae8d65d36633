package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
)

// SnapshotRepository persists scheduled dashboard snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot models.DailySnapshot) error
	List(ctx context.Context, limit int64) ([]models.DailySnapshot, error)
}

// MongoSnapshotRepository implements SnapshotRepository against MongoDB.
type MongoSnapshotRepository struct {
	store *Store
}

// NewSnapshotRepository wires the daily snapshots repository.
func NewSnapshotRepository(store *Store) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{store: store}
}

// Save inserts one snapshot document.
func (r *MongoSnapshotRepository) Save(ctx context.Context, snapshot models.DailySnapshot) error {
	if _, err := r.store.collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return apperr.Store("insert snapshot", err)
	}
	return nil
}

// List returns the most recent snapshots, newest first.
func (r *MongoSnapshotRepository) List(ctx context.Context, limit int64) ([]models.DailySnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.store.collection(snapshotsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("list snapshots", err)
	}

	snapshots := []models.DailySnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, apperr.Store("decode snapshots", err)
	}
	return snapshots, nil
}
