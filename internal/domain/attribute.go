package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attribute es un eje de variación (ej: "Color", "Talle").
type Attribute struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	SortOrder int       `gorm:"type:int;default:0;index"`
	Values    []AttributeValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttributeValue es un punto concreto sobre un eje (ej: "Rojo", "M").
type AttributeValue struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttributeID uuid.UUID `gorm:"type:uuid;index"`
	Value       string    `gorm:"size:100;not null"`
	SortOrder   int       `gorm:"type:int;default:0"`
	CreatedAt   time.Time
}
