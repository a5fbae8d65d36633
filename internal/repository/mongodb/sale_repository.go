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

// SaleRepository defines the CRUD bridge for the sales collection.
type SaleRepository interface {
	List(ctx context.Context) ([]models.Sale, error)
	GetByID(ctx context.Context, id string) (*models.Sale, error)
	Add(ctx context.Context, sale models.Sale) (string, error)
	Update(ctx context.Context, id string, update models.SaleUpdate) error
	Remove(ctx context.Context, id string) error
}

// MongoSaleRepository implements SaleRepository against MongoDB.
type MongoSaleRepository struct {
	store *Store
}

// NewSaleRepository wires the sales collection repository.
func NewSaleRepository(store *Store) *MongoSaleRepository {
	return &MongoSaleRepository{store: store}
}

// List returns every sale ordered by creation date, newest first.
func (r *MongoSaleRepository) List(ctx context.Context) ([]models.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.store.collection(salesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Store("list sales", err)
	}

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, apperr.Store("decode sales", err)
	}
	return sales, nil
}

// GetByID fetches a single sale document.
func (r *MongoSaleRepository) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var sale models.Sale
	err = r.store.collection(salesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Store("get sale", err)
	}
	return &sale, nil
}

// Add validates and inserts a sale, assigning both timestamps, and returns
// the new identifier.
func (r *MongoSaleRepository) Add(ctx context.Context, sale models.Sale) (string, error) {
	if err := sale.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	sale.ID = primitive.NilObjectID
	sale.CreatedAt = now
	sale.UpdatedAt = now

	res, err := r.store.collection(salesCollection).InsertOne(ctx, sale)
	if err != nil {
		return "", apperr.Store("insert sale", err)
	}
	return insertedHex(res), nil
}

// Update merges the present fields into the document and refreshes updatedAt.
func (r *MongoSaleRepository) Update(ctx context.Context, id string, update models.SaleUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.FarmerName != nil {
		set["farmerName"] = *update.FarmerName
	}
	if update.CropName != nil {
		set["cropName"] = *update.CropName
	}
	if update.QuantitySold != nil {
		set["quantitySold"] = *update.QuantitySold
	}
	if update.TotalPrice != nil {
		set["totalPrice"] = *update.TotalPrice
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}

	res, err := r.store.collection(salesCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return apperr.Store("update sale", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Remove deletes the document. Deleting an already absent id succeeds.
func (r *MongoSaleRepository) Remove(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil
	}

	if _, err := r.store.collection(salesCollection).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return apperr.Store("delete sale", err)
	}
	return nil
}
