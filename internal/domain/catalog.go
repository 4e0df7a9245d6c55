package domain

import "sort"

// OptionAxis es un atributo que aparece en las variantes de un producto
// junto con los valores distintos que esas variantes usan.
type OptionAxis struct {
	Attribute Attribute
	Values    []AttributeValue
}

// BuildOptionAxes deriva los ejes de opciones de un producto a partir de su
// lista de variantes (con asignaciones precargadas). Es una función pura:
// se recalcula cada vez que cambia la lista de variantes.
//
// Atributos dedup por id, orden por SortOrder ascendente y, a igual SortOrder,
// por orden de aparición. Valores dedup por id con el mismo criterio.
// Lista vacía de variantes produce lista vacía de ejes.
func BuildOptionAxes(variants []Variant) []OptionAxis {
	axes := []OptionAxis{}
	axisIdx := map[string]int{}
	seenValue := map[string]bool{}

	for _, v := range variants {
		for _, a := range v.Assignments {
			key := a.AttributeID.String()
			idx, ok := axisIdx[key]
			if !ok {
				attr := a.Attribute
				attr.ID = a.AttributeID
				axes = append(axes, OptionAxis{Attribute: attr})
				idx = len(axes) - 1
				axisIdx[key] = idx
			}
			vkey := a.AttributeValueID.String()
			if seenValue[vkey] {
				continue
			}
			seenValue[vkey] = true
			val := a.AttributeValue
			val.ID = a.AttributeValueID
			val.AttributeID = a.AttributeID
			axes[idx].Values = append(axes[idx].Values, val)
		}
	}

	// sort estable: conserva orden de aparición ante empates
	sort.SliceStable(axes, func(i, j int) bool {
		return axes[i].Attribute.SortOrder < axes[j].Attribute.SortOrder
	})
	for i := range axes {
		vals := axes[i].Values
		sort.SliceStable(vals, func(a, b int) bool {
			return vals[a].SortOrder < vals[b].SortOrder
		})
	}
	return axes
}
