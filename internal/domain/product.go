package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Slug      string            `gorm:"uniqueIndex;size:140"`
	Name      string            `gorm:"size:180"`
	BasePrice float64           `gorm:"type:decimal(12,2)"`
	Category  string            `gorm:"size:100"`
	ShortDesc string            `gorm:"type:text"`
	Active    bool              `gorm:"default:true;index"`
	Brand     string            `gorm:"size:100"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	Images    []Image
	Variants  []Variant
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	URL       string    `gorm:"size:255"`
	Alt       string    `gorm:"size:140"`
	CreatedAt time.Time
}
