package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testAttr struct {
	attr Attribute
	vals map[string]AttributeValue
}

func newTestAttr(name string, sortOrder int, values ...string) *testAttr {
	ta := &testAttr{
		attr: Attribute{ID: uuid.New(), Name: name, SortOrder: sortOrder},
		vals: map[string]AttributeValue{},
	}
	for i, v := range values {
		ta.vals[v] = AttributeValue{ID: uuid.New(), AttributeID: ta.attr.ID, Value: v, SortOrder: i}
	}
	return ta
}

func (ta *testAttr) pair(value string) VariantAssignment {
	v := ta.vals[value]
	return VariantAssignment{
		ID:               uuid.New(),
		AttributeID:      ta.attr.ID,
		AttributeValueID: v.ID,
		Attribute:        ta.attr,
		AttributeValue:   v,
	}
}

func newTestVariant(stock int, available bool, assigns ...VariantAssignment) Variant {
	v := Variant{ID: uuid.New(), ProductID: uuid.New(), Stock: stock, Available: available}
	for i := range assigns {
		assigns[i].VariantID = v.ID
	}
	v.Assignments = assigns
	return v
}

func TestBuildOptionAxesEmpty(t *testing.T) {
	t.Parallel()
	require.Empty(t, BuildOptionAxes(nil))
	require.Empty(t, BuildOptionAxes([]Variant{}))
}

func TestBuildOptionAxesDedupAndOrder(t *testing.T) {
	t.Parallel()
	talle := newTestAttr("Talle", 2, "S", "M")
	color := newTestAttr("Color", 1, "Rojo", "Azul")

	variants := []Variant{
		newTestVariant(1, true, talle.pair("S"), color.pair("Rojo")),
		newTestVariant(1, true, talle.pair("M"), color.pair("Rojo")),
		newTestVariant(1, true, talle.pair("M"), color.pair("Azul")),
	}
	axes := BuildOptionAxes(variants)
	require.Len(t, axes, 2)

	// Color tiene SortOrder menor aunque Talle aparece primero
	require.Equal(t, "Color", axes[0].Attribute.Name)
	require.Equal(t, "Talle", axes[1].Attribute.Name)

	require.Len(t, axes[0].Values, 2)
	require.Equal(t, "Rojo", axes[0].Values[0].Value)
	require.Equal(t, "Azul", axes[0].Values[1].Value)

	require.Len(t, axes[1].Values, 2)
	require.Equal(t, "S", axes[1].Values[0].Value)
	require.Equal(t, "M", axes[1].Values[1].Value)
}

func TestBuildOptionAxesTieBreakFirstSeen(t *testing.T) {
	t.Parallel()
	a := newTestAttr("Material", 0, "Cuero")
	b := newTestAttr("Color", 0, "Negro")

	variants := []Variant{
		newTestVariant(1, true, a.pair("Cuero"), b.pair("Negro")),
	}
	axes := BuildOptionAxes(variants)
	require.Len(t, axes, 2)
	require.Equal(t, "Material", axes[0].Attribute.Name)
	require.Equal(t, "Color", axes[1].Attribute.Name)
}

func TestAssignmentFingerprint(t *testing.T) {
	t.Parallel()
	a1, a2 := uuid.New(), uuid.New()
	v1, v2 := uuid.New(), uuid.New()

	fp1 := AssignmentFingerprint([]AssignmentPair{{a1, v1}, {a2, v2}})
	fp2 := AssignmentFingerprint([]AssignmentPair{{a2, v2}, {a1, v1}})
	require.Equal(t, fp1, fp2, "el orden de los pares no cambia la forma canónica")

	require.NotEqual(t, fp1, AssignmentFingerprint([]AssignmentPair{{a1, v1}}))
	require.Equal(t, "", AssignmentFingerprint(nil))
}
