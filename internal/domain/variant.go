package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Variant struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID      `gorm:"type:uuid;index"`
	SKU         string         `gorm:"size:100;index"`
	Price       float64        `gorm:"type:decimal(12,2);default:0"`
	Stock       int            `gorm:"type:int;default:0"`
	Available   bool           `gorm:"default:true"`
	ImageURLs   pq.StringArray `gorm:"type:text[]"`
	Fingerprint string         `gorm:"size:255;index"`
	Assignments []VariantAssignment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VariantAssignment fija la variante a un valor de un atributo.
// Una variante tiene a lo sumo una fila por atributo.
type VariantAssignment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	VariantID        uuid.UUID `gorm:"type:uuid;index"`
	AttributeID      uuid.UUID `gorm:"type:uuid;index"`
	AttributeValueID uuid.UUID `gorm:"type:uuid;index"`
	Attribute        Attribute
	AttributeValue   AttributeValue
}

type AssignmentPair struct {
	AttributeID      uuid.UUID `json:"attribute_id"`
	AttributeValueID uuid.UUID `json:"attribute_value_id"`
}

// Pairs devuelve el set de asignaciones de la variante como pares planos.
func (v *Variant) Pairs() []AssignmentPair {
	out := make([]AssignmentPair, 0, len(v.Assignments))
	for _, a := range v.Assignments {
		out = append(out, AssignmentPair{AttributeID: a.AttributeID, AttributeValueID: a.AttributeValueID})
	}
	return out
}

// Has informa si la variante contiene el par exacto (atributo, valor).
func (v *Variant) Has(attributeID, valueID uuid.UUID) bool {
	for _, a := range v.Assignments {
		if a.AttributeID == attributeID && a.AttributeValueID == valueID {
			return true
		}
	}
	return false
}

// AssignmentFingerprint es la forma canónica de un set de asignaciones:
// pares ordenados por id de atributo, "attr=valor" unidos por ";".
// Dos variantes del mismo producto no pueden compartir fingerprint.
func AssignmentFingerprint(pairs []AssignmentPair) string {
	if len(pairs) == 0 {
		return ""
	}
	sorted := make([]AssignmentPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.Compare(sorted[i].AttributeID.String(), sorted[j].AttributeID.String()) < 0
	})
	parts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		parts = append(parts, p.AttributeID.String()+"="+p.AttributeValueID.String())
	}
	return strings.Join(parts, ";")
}
