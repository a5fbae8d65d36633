package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
)

// CropRepository defines the CRUD bridge for the crops collection.
type CropRepository interface {
	List(ctx context.Context) ([]models.Crop, error)
	GetByID(ctx context.Context, id string) (*models.Crop, error)
	Add(ctx context.Context, crop models.Crop) (string, error)
	Update(ctx context.Context, id string, update models.CropUpdate) error
	Remove(ctx context.Context, id string) error
}

// MongoCropRepository implements CropRepository against MongoDB.
type MongoCropRepository struct {
	store *Store
}

// NewCropRepository wires the crops collection repository.
func NewCropRepository(store *Store) *MongoCropRepository {
	return &MongoCropRepository{store: store}
}

// List returns every crop ordered by creation date, newest first.
func (r *MongoCropRepository) List(ctx context.Context) ([]models.Crop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.store.collection(cropsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("list crops", err)
	}

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		return nil, apperr.Store("decode crops", err)
	}
	return crops, nil
}

// GetByID fetches a single crop document.
func (r *MongoCropRepository) GetByID(ctx context.Context, id string) (*models.Crop, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var crop models.Crop
	err = r.store.collection(cropsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&crop)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Store("get crop", err)
	}
	return &crop, nil
}

// Add validates and inserts a crop, assigning both timestamps, and returns
// the new identifier.
func (r *MongoCropRepository) Add(ctx context.Context, crop models.Crop) (string, error) {
	if err := crop.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	crop.ID = primitive.NilObjectID
	crop.CreatedAt = now
	crop.UpdatedAt = now

	res, err := r.store.collection(cropsCollection).InsertOne(ctx, crop)
	if err != nil {
		return "", apperr.Store("insert crop", err)
	}
	return insertedHex(res), nil
}

// Update merges the present fields into the document and refreshes updatedAt.
func (r *MongoCropRepository) Update(ctx context.Context, id string, update models.CropUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.CropName != nil {
		set["cropName"] = *update.CropName
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Season != nil {
		set["season"] = *update.Season
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}

	res, err := r.store.collection(cropsCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return apperr.Store("update crop", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Remove deletes the document. Deleting an already absent id succeeds.
func (r *MongoCropRepository) Remove(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil
	}

	if _, err := r.store.collection(cropsCollection).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return apperr.Store("delete crop", err)
	}
	return nil
}
