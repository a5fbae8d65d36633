package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrismart/internal/domain/apperr"
)

// DateLayout is the calendar-date form used by sale records.
const DateLayout = "2006-01-02"

// Sale represents a sale document in the sales collection.
// FarmerName and CropName are denormalized copies of the names selected at
// submit time; they are not references, and deleting a farmer or crop does
// not cascade to dependent sales.
type Sale struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FarmerName   string             `bson:"farmerName" json:"farmerName"`
	CropName     string             `bson:"cropName" json:"cropName"`
	QuantitySold float64            `bson:"quantitySold" json:"quantitySold"` // kg
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`
	Date         string             `bson:"date" json:"date"` // YYYY-MM-DD
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Validate checks required fields and shapes before persistence.
func (s Sale) Validate() error {
	if s.FarmerName == "" {
		return apperr.Invalid("farmerName", "must not be empty")
	}
	if s.CropName == "" {
		return apperr.Invalid("cropName", "must not be empty")
	}
	if s.QuantitySold <= 0 {
		return apperr.Invalid("quantitySold", "must be greater than zero")
	}
	if s.TotalPrice <= 0 {
		return apperr.Invalid("totalPrice", "must be greater than zero")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return apperr.Invalid("date", "must be a calendar date in YYYY-MM-DD form")
	}
	return nil
}

// SaleUpdate carries a partial update; nil fields are left untouched.
type SaleUpdate struct {
	FarmerName   *string  `json:"farmerName,omitempty"`
	CropName     *string  `json:"cropName,omitempty"`
	QuantitySold *float64 `json:"quantitySold,omitempty"`
	TotalPrice   *float64 `json:"totalPrice,omitempty"`
	Date         *string  `json:"date,omitempty"`
}

// Validate rejects present fields that would break the record's invariants.
func (u SaleUpdate) Validate() error {
	if u.FarmerName != nil && *u.FarmerName == "" {
		return apperr.Invalid("farmerName", "must not be empty")
	}
	if u.CropName != nil && *u.CropName == "" {
		return apperr.Invalid("cropName", "must not be empty")
	}
	if u.QuantitySold != nil && *u.QuantitySold <= 0 {
		return apperr.Invalid("quantitySold", "must be greater than zero")
	}
	if u.TotalPrice != nil && *u.TotalPrice <= 0 {
		return apperr.Invalid("totalPrice", "must be greater than zero")
	}
	if u.Date != nil {
		if _, err := time.Parse(DateLayout, *u.Date); err != nil {
			return apperr.Invalid("date", "must be a calendar date in YYYY-MM-DD form")
		}
	}
	return nil
}
