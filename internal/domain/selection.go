package domain

import "github.com/google/uuid"

// Selection son las elecciones del comprador: atributo → valor, a lo sumo una
// entrada por atributo. Vive en la sesión de la página de producto y se
// reconstruye en cada interacción; nunca se persiste.
type Selection map[uuid.UUID]uuid.UUID

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Resolver resuelve la selección del comprador contra un snapshot inmutable de
// variantes. El orden de la lista fija el desempate del smart switch: la
// primera variante recorrida gana, y el repo lista por fecha de creación.
type Resolver struct {
	variants []Variant
	axes     []OptionAxis
	sel      Selection
}

func NewResolver(variants []Variant, sel Selection) *Resolver {
	r := &Resolver{variants: variants, axes: BuildOptionAxes(variants), sel: Selection{}}
	if sel != nil {
		r.sel = sel.clone()
	}
	return r
}

func (r *Resolver) Selection() Selection { return r.sel.clone() }

func (r *Resolver) Axes() []OptionAxis { return r.axes }

// matchesAll informa si la variante contiene cada par de la selección.
func matchesAll(v *Variant, sel Selection) bool {
	for attrID, valID := range sel {
		if !v.Has(attrID, valID) {
			return false
		}
	}
	return true
}

// SetValue aplica el click del comprador sobre (atributo, valor).
//
// Primero intenta el match exacto: si alguna variante es consistente con la
// selección propuesta (aunque queden atributos pendientes), la propuesta se
// confirma tal cual. Si el nuevo valor es incompatible con el resto de la
// selección actual, entra el smart switch: entre las variantes que contienen
// el nuevo par, gana la que coincide con la mayor cantidad de entradas
// restantes, y la selección se reemplaza entera por su set de asignaciones.
// Si ninguna variante contiene el nuevo par (inconsistencia catálogo/UI),
// la selección colapsa al nuevo par solo.
func (r *Resolver) SetValue(attributeID, valueID uuid.UUID) {
	proposed := r.sel.clone()
	proposed[attributeID] = valueID

	for i := range r.variants {
		if matchesAll(&r.variants[i], proposed) {
			r.sel = proposed
			return
		}
	}

	var best *Variant
	bestScore := -1
	for i := range r.variants {
		v := &r.variants[i]
		if !v.Has(attributeID, valueID) {
			continue
		}
		score := 0
		for attrID, valID := range r.sel {
			if attrID == attributeID {
				continue
			}
			if v.Has(attrID, valID) {
				score++
			}
		}
		if score > bestScore {
			best = v
			bestScore = score
		}
	}
	if best == nil {
		r.sel = Selection{attributeID: valueID}
		return
	}
	next := Selection{}
	for _, a := range best.Assignments {
		next[a.AttributeID] = a.AttributeValueID
	}
	r.sel = next
}

// IsComplete informa si la selección tiene una entrada por cada eje.
func (r *Resolver) IsComplete() bool {
	for _, ax := range r.axes {
		if _, ok := r.sel[ax.Attribute.ID]; !ok {
			return false
		}
	}
	return true
}

// ResolveVariant devuelve la variante cuyo set de asignaciones es exactamente
// igual a la selección, si la selección está completa y esa variante existe.
// Una selección completa sin variante no es un error: el catálogo puede tener
// huecos en el espacio combinatorio ("no ofrecido actualmente").
func (r *Resolver) ResolveVariant() (*Variant, bool) {
	if !r.IsComplete() {
		return nil, false
	}
	for i := range r.variants {
		v := &r.variants[i]
		if len(v.Assignments) == len(r.sel) && matchesAll(v, r.sel) {
			return v, true
		}
	}
	return nil, false
}

// candidates devuelve las variantes que contienen (atributo, valor) y
// coinciden con todas las demás entradas de la selección. El atributo
// consultado queda excluido del chequeo: la pregunta es "si eligiera este
// valor manteniendo el resto, ¿existiría algo?".
func (r *Resolver) candidates(attributeID, valueID uuid.UUID) []*Variant {
	var out []*Variant
	for i := range r.variants {
		v := &r.variants[i]
		if !v.Has(attributeID, valueID) {
			continue
		}
		ok := true
		for attrID, valID := range r.sel {
			if attrID == attributeID {
				continue
			}
			if !v.Has(attrID, valID) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *Resolver) IsValueAvailable(attributeID, valueID uuid.UUID) bool {
	return len(r.candidates(attributeID, valueID)) > 0
}

// IsValueOutOfStock es true cuando todas las variantes candidatas están sin
// stock o marcadas no disponibles. Sin candidatas devuelve false: "no
// disponible" y "sin stock" son señales distintas y el caller chequea
// disponibilidad por separado.
func (r *Resolver) IsValueOutOfStock(attributeID, valueID uuid.UUID) bool {
	cands := r.candidates(attributeID, valueID)
	if len(cands) == 0 {
		return false
	}
	for _, v := range cands {
		if v.Stock > 0 && v.Available {
			return false
		}
	}
	return true
}

// AutoFillSingletons agrega a la selección el valor de cada eje que tiene un
// único valor distinto y todavía no fue elegido. Solo agrega: nunca pisa una
// elección previa del comprador.
func (r *Resolver) AutoFillSingletons() {
	for _, ax := range r.axes {
		if len(ax.Values) != 1 {
			continue
		}
		if _, ok := r.sel[ax.Attribute.ID]; ok {
			continue
		}
		r.sel[ax.Attribute.ID] = ax.Values[0].ID
	}
}
