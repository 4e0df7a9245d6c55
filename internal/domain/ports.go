package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("no encontrado")

type ProductFilter struct {
	Query    string
	Category string
	Sort     string
	Page     int
	PageSize int
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	DeleteFullBySlug(ctx context.Context, slug string) error
	AddImages(ctx context.Context, productID uuid.UUID, imgs []Image) error

	SaveVariant(ctx context.Context, v *Variant) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error
}

type AttributeRepo interface {
	Save(ctx context.Context, a *Attribute) error
	List(ctx context.Context) ([]Attribute, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveValue(ctx context.Context, v *AttributeValue) error
	DeleteValue(ctx context.Context, id uuid.UUID) error
}
