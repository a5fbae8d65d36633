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

// FarmerRepository defines the CRUD bridge for the farmers collection.
type FarmerRepository interface {
	List(ctx context.Context) ([]models.Farmer, error)
	GetByID(ctx context.Context, id string) (*models.Farmer, error)
	Add(ctx context.Context, farmer models.Farmer) (string, error)
	Update(ctx context.Context, id string, update models.FarmerUpdate) error
	Remove(ctx context.Context, id string) error
}

// MongoFarmerRepository implements FarmerRepository against MongoDB.
type MongoFarmerRepository struct {
	store *Store
}

// NewFarmerRepository wires the farmers collection repository.
func NewFarmerRepository(store *Store) *MongoFarmerRepository {
	return &MongoFarmerRepository{store: store}
}

// List returns every farmer ordered by creation date, newest first.
func (r *MongoFarmerRepository) List(ctx context.Context) ([]models.Farmer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.store.collection(farmersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("list farmers", err)
	}

	farmers := []models.Farmer{}
	if err := cursor.All(ctx, &farmers); err != nil {
		return nil, apperr.Store("decode farmers", err)
	}
	return farmers, nil
}

// GetByID fetches a single farmer document.
func (r *MongoFarmerRepository) GetByID(ctx context.Context, id string) (*models.Farmer, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var farmer models.Farmer
	err = r.store.collection(farmersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&farmer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Store("get farmer", err)
	}
	return &farmer, nil
}

// Add validates and inserts a farmer, assigning both timestamps to the
// store's current time, and returns the new identifier.
func (r *MongoFarmerRepository) Add(ctx context.Context, farmer models.Farmer) (string, error) {
	if err := farmer.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	farmer.ID = primitive.NilObjectID
	farmer.CreatedAt = now
	farmer.UpdatedAt = now

	res, err := r.store.collection(farmersCollection).InsertOne(ctx, farmer)
	if err != nil {
		return "", apperr.Store("insert farmer", err)
	}
	return insertedHex(res), nil
}

// Update merges the present fields into the document and refreshes updatedAt.
func (r *MongoFarmerRepository) Update(ctx context.Context, id string, update models.FarmerUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.LandArea != nil {
		set["landArea"] = *update.LandArea
	}

	res, err := r.store.collection(farmersCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return apperr.Store("update farmer", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Remove deletes the document. Deleting an already absent id succeeds.
func (r *MongoFarmerRepository) Remove(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		// Nothing stored under a malformed id; removal is a no-op.
		return nil
	}

	if _, err := r.store.collection(farmersCollection).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return apperr.Store("delete farmer", err)
	}
	return nil
}
