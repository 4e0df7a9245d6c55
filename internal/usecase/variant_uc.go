package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lautarip/tiendamoda/internal/domain"
)

// VariantPick es una elección del administrador en el formulario de
// generación. Puede haber varias picks para el mismo atributo: cada
// combinación de valores produce una variante.
type VariantPick struct {
	AttributeID      uuid.UUID `json:"attribute_id"`
	AttributeValueID uuid.UUID `json:"attribute_value_id"`
}

// VariantTemplate son los campos compartidos que se aplican a cada variante
// generada en el lote.
type VariantTemplate struct {
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	Available bool     `json:"available"`
	ImageURLs []string `json:"image_urls"`
}

// GenerateReport resume el resultado de un lote: combinaciones creadas,
// salteadas por ya existir y fallidas. Los tres contadores son independientes;
// una falla no revierte las creaciones previas.
type GenerateReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type VariantUC struct {
	Products domain.ProductRepo
}

// Generate expande las picks del administrador al producto cartesiano de
// combinaciones y emite una creación por combinación, en orden y de a una.
// Picks sin atributo o sin valor se descartan en silencio (formularios a
// medio llenar). Cero grupos produce una única variante sin atributos.
// Una combinación cuyo set de asignaciones ya existe para el producto se
// saltea y se reporta, no se duplica.
func (uc *VariantUC) Generate(ctx context.Context, productID uuid.UUID, picks []VariantPick, tpl VariantTemplate) (GenerateReport, error) {
	var rep GenerateReport
	if productID == uuid.Nil {
		return rep, errors.New("product id")
	}

	groups := groupPicks(picks)
	combos := cartesian(groups)

	existing, err := uc.Products.ListVariants(ctx, productID)
	if err != nil {
		return rep, err
	}
	seen := map[string]bool{}
	for i := range existing {
		seen[domain.AssignmentFingerprint(existing[i].Pairs())] = true
	}

	for _, combo := range combos {
		fp := domain.AssignmentFingerprint(combo)
		if seen[fp] {
			rep.Skipped++
			continue
		}
		v := &domain.Variant{
			ID:        uuid.New(),
			ProductID: productID,
			Price:     tpl.Price,
			Stock:     tpl.Stock,
			Available: tpl.Available,
			ImageURLs: tpl.ImageURLs,
		}
		for _, p := range combo {
			v.Assignments = append(v.Assignments, domain.VariantAssignment{
				ID:               uuid.New(),
				VariantID:        v.ID,
				AttributeID:      p.AttributeID,
				AttributeValueID: p.AttributeValueID,
			})
		}
		if err := uc.Products.SaveVariant(ctx, v); err != nil {
			log.Warn().Err(err).Str("product_id", productID.String()).Msg("variante no creada")
			rep.Failed++
			continue
		}
		seen[fp] = true
		rep.Created++
	}
	return rep, nil
}

type pickGroup struct {
	attributeID uuid.UUID
	valueIDs    []uuid.UUID
}

// groupPicks agrupa por atributo respetando el orden de inserción.
func groupPicks(picks []VariantPick) []pickGroup {
	var groups []pickGroup
	idx := map[uuid.UUID]int{}
	for _, p := range picks {
		if p.AttributeID == uuid.Nil || p.AttributeValueID == uuid.Nil {
			continue
		}
		i, ok := idx[p.AttributeID]
		if !ok {
			groups = append(groups, pickGroup{attributeID: p.AttributeID})
			i = len(groups) - 1
			idx[p.AttributeID] = i
		}
		groups[i].valueIDs = append(groups[i].valueIDs, p.AttributeValueID)
	}
	return groups
}

// cartesian expande los grupos en orden: una combinación por término del
// producto. Sin grupos devuelve una única combinación vacía.
func cartesian(groups []pickGroup) [][]domain.AssignmentPair {
	combos := [][]domain.AssignmentPair{{}}
	for _, g := range groups {
		var next [][]domain.AssignmentPair
		for _, combo := range combos {
			for _, valID := range g.valueIDs {
				ext := make([]domain.AssignmentPair, len(combo), len(combo)+1)
				copy(ext, combo)
				ext = append(ext, domain.AssignmentPair{AttributeID: g.attributeID, AttributeValueID: valID})
				next = append(next, ext)
			}
		}
		combos = next
	}
	return combos
}
