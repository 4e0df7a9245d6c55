package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lautarip/tiendamoda/internal/domain"
)

// fakeProductRepo captura las variantes creadas y permite inyectar fallas por
// combinación.
type fakeProductRepo struct {
	existing []domain.Variant
	created  []domain.Variant
	failOn   map[string]error // fingerprint → error
}

func (f *fakeProductRepo) Save(context.Context, *domain.Product) error { return nil }
func (f *fakeProductRepo) FindBySlug(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeProductRepo) List(context.Context, domain.ProductFilter) ([]domain.Product, int64, error) {
	return nil, 0, nil
}
func (f *fakeProductRepo) DeleteFullBySlug(context.Context, string) error { return nil }
func (f *fakeProductRepo) AddImages(context.Context, uuid.UUID, []domain.Image) error {
	return nil
}
func (f *fakeProductRepo) DeleteVariant(context.Context, uuid.UUID) error { return nil }

func (f *fakeProductRepo) SaveVariant(_ context.Context, v *domain.Variant) error {
	fp := domain.AssignmentFingerprint(v.Pairs())
	if err, ok := f.failOn[fp]; ok {
		return err
	}
	f.created = append(f.created, *v)
	return nil
}

func (f *fakeProductRepo) ListVariants(context.Context, uuid.UUID) ([]domain.Variant, error) {
	return f.existing, nil
}

func pairsOf(v domain.Variant) map[uuid.UUID]uuid.UUID {
	out := map[uuid.UUID]uuid.UUID{}
	for _, a := range v.Assignments {
		out[a.AttributeID] = a.AttributeValueID
	}
	return out
}

func TestGenerateCartesianCompleteness(t *testing.T) {
	t.Parallel()
	repo := &fakeProductRepo{}
	uc := &VariantUC{Products: repo}

	attrA, attrB := uuid.New(), uuid.New()
	a1, a2, b1 := uuid.New(), uuid.New(), uuid.New()

	rep, err := uc.Generate(context.Background(), uuid.New(), []VariantPick{
		{AttributeID: attrA, AttributeValueID: a1},
		{AttributeID: attrA, AttributeValueID: a2},
		{AttributeID: attrB, AttributeValueID: b1},
	}, VariantTemplate{Price: 100, Stock: 5, Available: true})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 2}, rep)
	require.Len(t, repo.created, 2)

	// orden de grupo: A varía primero
	require.Equal(t, map[uuid.UUID]uuid.UUID{attrA: a1, attrB: b1}, pairsOf(repo.created[0]))
	require.Equal(t, map[uuid.UUID]uuid.UUID{attrA: a2, attrB: b1}, pairsOf(repo.created[1]))

	for _, v := range repo.created {
		require.Equal(t, 100.0, v.Price)
		require.Equal(t, 5, v.Stock)
		require.True(t, v.Available)
	}
}

func TestGenerateZeroPicksSingleEmptyVariant(t *testing.T) {
	t.Parallel()
	repo := &fakeProductRepo{}
	uc := &VariantUC{Products: repo}

	rep, err := uc.Generate(context.Background(), uuid.New(), nil, VariantTemplate{Price: 50})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 1}, rep)
	require.Len(t, repo.created, 1)
	require.Empty(t, repo.created[0].Assignments)
}

func TestGenerateDropsMalformedPicks(t *testing.T) {
	t.Parallel()
	repo := &fakeProductRepo{}
	uc := &VariantUC{Products: repo}

	attrA := uuid.New()
	a1 := uuid.New()
	rep, err := uc.Generate(context.Background(), uuid.New(), []VariantPick{
		{AttributeID: uuid.Nil, AttributeValueID: a1},
		{AttributeID: attrA, AttributeValueID: uuid.Nil},
		{AttributeID: attrA, AttributeValueID: a1},
	}, VariantTemplate{})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 1}, rep)
	require.Equal(t, map[uuid.UUID]uuid.UUID{attrA: a1}, pairsOf(repo.created[0]))
}

func TestGenerateSkipsExistingCombination(t *testing.T) {
	t.Parallel()
	attrA := uuid.New()
	a1, a2 := uuid.New(), uuid.New()

	existing := domain.Variant{ID: uuid.New()}
	existing.Assignments = []domain.VariantAssignment{
		{AttributeID: attrA, AttributeValueID: a1},
	}
	repo := &fakeProductRepo{existing: []domain.Variant{existing}}
	uc := &VariantUC{Products: repo}

	rep, err := uc.Generate(context.Background(), uuid.New(), []VariantPick{
		{AttributeID: attrA, AttributeValueID: a1},
		{AttributeID: attrA, AttributeValueID: a2},
	}, VariantTemplate{})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 1, Skipped: 1}, rep)
	require.Equal(t, map[uuid.UUID]uuid.UUID{attrA: a2}, pairsOf(repo.created[0]))
}

func TestGenerateSkipsDuplicateWithinBatch(t *testing.T) {
	t.Parallel()
	repo := &fakeProductRepo{}
	uc := &VariantUC{Products: repo}

	attrA := uuid.New()
	a1 := uuid.New()
	// el mismo valor elegido dos veces para el mismo atributo
	rep, err := uc.Generate(context.Background(), uuid.New(), []VariantPick{
		{AttributeID: attrA, AttributeValueID: a1},
		{AttributeID: attrA, AttributeValueID: a1},
	}, VariantTemplate{})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 1, Skipped: 1}, rep)
}

func TestGeneratePartialFailureContinues(t *testing.T) {
	t.Parallel()
	attrA := uuid.New()
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()

	fpBad := domain.AssignmentFingerprint([]domain.AssignmentPair{{AttributeID: attrA, AttributeValueID: a2}})
	repo := &fakeProductRepo{failOn: map[string]error{fpBad: errors.New("constraint")}}
	uc := &VariantUC{Products: repo}

	rep, err := uc.Generate(context.Background(), uuid.New(), []VariantPick{
		{AttributeID: attrA, AttributeValueID: a1},
		{AttributeID: attrA, AttributeValueID: a2},
		{AttributeID: attrA, AttributeValueID: a3},
	}, VariantTemplate{})
	require.NoError(t, err)
	require.Equal(t, GenerateReport{Created: 2, Failed: 1}, rep)
	require.Len(t, repo.created, 2, "la falla de una combinación no aborta el lote")
}

func TestGenerateNilProductID(t *testing.T) {
	t.Parallel()
	uc := &VariantUC{Products: &fakeProductRepo{}}
	_, err := uc.Generate(context.Background(), uuid.Nil, nil, VariantTemplate{})
	require.Error(t, err)
}
