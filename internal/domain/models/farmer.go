package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrismart/internal/domain/apperr"
)

// Farmer represents a farmer document in the farmers collection.
// Timestamps are assigned by the store layer, never by callers.
type Farmer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address" json:"address"`
	LandArea  float64            `bson:"landArea" json:"landArea"` // acres
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Validate checks required fields and shapes before the record is persisted.
func (f Farmer) Validate() error {
	if f.Name == "" {
		return apperr.Invalid("name", "must not be empty")
	}
	if !isTenDigitPhone(f.Phone) {
		return apperr.Invalid("phone", "must be a 10-digit number")
	}
	if f.Address == "" {
		return apperr.Invalid("address", "must not be empty")
	}
	if f.LandArea <= 0 {
		return apperr.Invalid("landArea", "must be greater than zero")
	}
	return nil
}

// FarmerUpdate carries a partial update; nil fields are left untouched.
type FarmerUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Address  *string  `json:"address,omitempty"`
	LandArea *float64 `json:"landArea,omitempty"`
}

// Validate rejects present fields that would break the record's invariants.
func (u FarmerUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return apperr.Invalid("name", "must not be empty")
	}
	if u.Phone != nil && !isTenDigitPhone(*u.Phone) {
		return apperr.Invalid("phone", "must be a 10-digit number")
	}
	if u.Address != nil && *u.Address == "" {
		return apperr.Invalid("address", "must not be empty")
	}
	if u.LandArea != nil && *u.LandArea <= 0 {
		return apperr.Invalid("landArea", "must be greater than zero")
	}
	return nil
}

func isTenDigitPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
