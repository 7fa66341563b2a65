package models

import (
	"gorm.io/datatypes"
)

// Place is immutable reference data keyed by the producer's own place
// identifier, upserted opportunistically whenever a tweet carries one.
type Place struct {
	ID              string `gorm:"size:20;primaryKey"`
	URL             string `gorm:"size:200"`
	PlaceType       string `gorm:"size:20"`
	Name            string `gorm:"size:100"`
	FullName        string `gorm:"size:200"`
	CountryCode     string `gorm:"size:5"`
	Country         string `gorm:"size:100"`
	ContainedWithin datatypes.JSON
	BoundingBox     datatypes.JSON
	Attributes      datatypes.JSONMap
}

func (m *Place) TableName() string {
	return "places"
}
