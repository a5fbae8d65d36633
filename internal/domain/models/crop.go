package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrismart/internal/domain/apperr"
)

// CropType enumerates the supported crop categories.
type CropType string

const (
	CropGrain     CropType = "Grain"
	CropVegetable CropType = "Vegetable"
	CropFruit     CropType = "Fruit"
	CropPulse     CropType = "Pulse"
	CropOilseed   CropType = "Oilseed"
	CropSpice     CropType = "Spice"
	CropFiber     CropType = "Fiber"
	CropOther     CropType = "Other"
)

// CropTypes lists every valid crop type, in display order.
var CropTypes = []CropType{
	CropGrain, CropVegetable, CropFruit, CropPulse,
	CropOilseed, CropSpice, CropFiber, CropOther,
}

// Season enumerates the Indian cropping seasons.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
	SeasonZaid   Season = "Zaid"
)

// Seasons lists the fixed season set used by filters and the dashboard.
var Seasons = []Season{SeasonKharif, SeasonRabi, SeasonZaid}

// ValidSeason reports whether s is one of the three enumerated seasons.
func ValidSeason(s Season) bool {
	return s == SeasonKharif || s == SeasonRabi || s == SeasonZaid
}

// ValidCropType reports whether t belongs to the enumerated crop type set.
func ValidCropType(t CropType) bool {
	for _, ct := range CropTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Crop represents a crop document in the crops collection.
type Crop struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CropName  string             `bson:"cropName" json:"cropName"`
	Type      CropType           `bson:"type" json:"type"`
	Season    Season             `bson:"season" json:"season"`
	Quantity  float64            `bson:"quantity" json:"quantity"` // kg
	Price     float64            `bson:"price" json:"price"`       // per kg
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Validate checks required fields and enum membership before persistence.
func (c Crop) Validate() error {
	if c.CropName == "" {
		return apperr.Invalid("cropName", "must not be empty")
	}
	if !ValidCropType(c.Type) {
		return apperr.Invalid("type", "must be one of the supported crop types")
	}
	if !ValidSeason(c.Season) {
		return apperr.Invalid("season", "must be Kharif, Rabi or Zaid")
	}
	if c.Quantity <= 0 {
		return apperr.Invalid("quantity", "must be greater than zero")
	}
	if c.Price <= 0 {
		return apperr.Invalid("price", "must be greater than zero")
	}
	return nil
}

// CropUpdate carries a partial update; nil fields are left untouched.
type CropUpdate struct {
	CropName *string   `json:"cropName,omitempty"`
	Type     *CropType `json:"type,omitempty"`
	Season   *Season   `json:"season,omitempty"`
	Quantity *float64  `json:"quantity,omitempty"`
	Price    *float64  `json:"price,omitempty"`
}

// Validate rejects present fields that would break the record's invariants.
func (u CropUpdate) Validate() error {
	if u.CropName != nil && *u.CropName == "" {
		return apperr.Invalid("cropName", "must not be empty")
	}
	if u.Type != nil && !ValidCropType(*u.Type) {
		return apperr.Invalid("type", "must be one of the supported crop types")
	}
	if u.Season != nil && !ValidSeason(*u.Season) {
		return apperr.Invalid("season", "must be Kharif, Rabi or Zaid")
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return apperr.Invalid("quantity", "must be greater than zero")
	}
	if u.Price != nil && *u.Price <= 0 {
		return apperr.Invalid("price", "must be greater than zero")
	}
	return nil
}
