package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lautarip/tiendamoda/internal/domain"
	"github.com/lautarip/tiendamoda/internal/usecase"
)

type stubProductRepo struct {
	product *domain.Product
}

func (s *stubProductRepo) Save(context.Context, *domain.Product) error { return nil }
func (s *stubProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	if s.product != nil && s.product.Slug == slug {
		return s.product, nil
	}
	return nil, domain.ErrNotFound
}
func (s *stubProductRepo) List(context.Context, domain.ProductFilter) ([]domain.Product, int64, error) {
	return nil, 0, nil
}
func (s *stubProductRepo) DeleteFullBySlug(context.Context, string) error          { return nil }
func (s *stubProductRepo) AddImages(context.Context, uuid.UUID, []domain.Image) error {
	return nil
}
func (s *stubProductRepo) SaveVariant(context.Context, *domain.Variant) error { return nil }
func (s *stubProductRepo) ListVariants(context.Context, uuid.UUID) ([]domain.Variant, error) {
	if s.product == nil {
		return nil, nil
	}
	return s.product.Variants, nil
}
func (s *stubProductRepo) DeleteVariant(context.Context, uuid.UUID) error { return nil }

type selectionResponse struct {
	Selection map[string]string `json:"selection"`
	Matched   bool              `json:"matched"`
	Variant   *domain.Variant   `json:"variant"`
	Axes      []optionAxisDTO   `json:"axes"`
}

func testCatalog() (*domain.Product, map[string]uuid.UUID) {
	color := domain.Attribute{ID: uuid.New(), Name: "Color", SortOrder: 1}
	talle := domain.Attribute{ID: uuid.New(), Name: "Talle", SortOrder: 2}
	rojo := domain.AttributeValue{ID: uuid.New(), AttributeID: color.ID, Value: "Rojo", SortOrder: 0}
	azul := domain.AttributeValue{ID: uuid.New(), AttributeID: color.ID, Value: "Azul", SortOrder: 1}
	s := domain.AttributeValue{ID: uuid.New(), AttributeID: talle.ID, Value: "S", SortOrder: 0}
	m := domain.AttributeValue{ID: uuid.New(), AttributeID: talle.ID, Value: "M", SortOrder: 1}

	mk := func(stock int, pairs ...[2]any) domain.Variant {
		v := domain.Variant{ID: uuid.New(), Stock: stock, Available: true}
		for _, p := range pairs {
			attr := p[0].(domain.Attribute)
			val := p[1].(domain.AttributeValue)
			v.Assignments = append(v.Assignments, domain.VariantAssignment{
				ID: uuid.New(), VariantID: v.ID,
				AttributeID: attr.ID, AttributeValueID: val.ID,
				Attribute: attr, AttributeValue: val,
			})
		}
		return v
	}

	p := &domain.Product{
		ID: uuid.New(), Slug: "remera-basica", Name: "Remera Básica", Active: true,
		Variants: []domain.Variant{
			mk(3, [2]any{color, rojo}, [2]any{talle, s}),
			mk(0, [2]any{color, azul}, [2]any{talle, m}),
		},
	}
	ids := map[string]uuid.UUID{
		"color": color.ID, "talle": talle.ID,
		"rojo": rojo.ID, "azul": azul.ID, "s": s.ID, "m": m.ID,
	}
	return p, ids
}

func newTestServer(p *domain.Product) http.Handler {
	repo := &stubProductRepo{product: p}
	return New(
		&usecase.ProductUC{Products: repo},
		&usecase.AttributeUC{},
		&usecase.VariantUC{Products: repo},
		nil,
	)
}

func TestSelectionEndpointSmartSwitch(t *testing.T) {
	p, ids := testCatalog()
	h := newTestServer(p)

	body, _ := json.Marshal(map[string]any{
		"selection": map[string]string{
			ids["color"].String(): ids["rojo"].String(),
			ids["talle"].String(): ids["s"].String(),
		},
		"set": map[string]string{
			"attribute_id":       ids["color"].String(),
			"attribute_value_id": ids["azul"].String(),
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/products/remera-basica/selection", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var resp selectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Azul+S no existe: el smart switch salta a Azul+M
	require.Equal(t, ids["azul"].String(), resp.Selection[ids["color"].String()])
	require.Equal(t, ids["m"].String(), resp.Selection[ids["talle"].String()])
	require.True(t, resp.Matched)
	require.NotNil(t, resp.Variant)

	// la variante Azul+M está sin stock: el chip Azul se pinta agotado
	for _, ax := range resp.Axes {
		if ax.AttributeID != ids["color"] {
			continue
		}
		for _, val := range ax.Values {
			if val.ID == ids["azul"] {
				require.True(t, val.Selected)
				require.True(t, val.Available)
				require.True(t, val.OutOfStock)
			}
		}
	}
}

func TestSelectionEndpointNoOffer(t *testing.T) {
	p, ids := testCatalog()
	h := newTestServer(p)

	// Selección completa sobre un hueco del catálogo: Rojo+M no existe
	body, _ := json.Marshal(map[string]any{
		"selection": map[string]string{
			ids["color"].String(): ids["rojo"].String(),
			ids["talle"].String(): ids["m"].String(),
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/products/remera-basica/selection", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code, "un hueco no es un error")

	var resp selectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Matched)
	require.Nil(t, resp.Variant)
}

func TestOptionsEndpoint(t *testing.T) {
	p, ids := testCatalog()
	h := newTestServer(p)

	req := httptest.NewRequest(http.MethodGet, "/api/products/remera-basica/options", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	var resp selectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Axes, 2)
	require.Equal(t, "Color", resp.Axes[0].Name)
	require.Equal(t, ids["color"], resp.Axes[0].AttributeID)
	require.Empty(t, resp.Selection, "sin ejes de valor único no hay autocompletado")
}

func TestSelectionEndpointUnknownProduct(t *testing.T) {
	p, _ := testCatalog()
	h := newTestServer(p)

	req := httptest.NewRequest(http.MethodPost, "/api/products/otra/selection", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, 404, rec.Code)
}
