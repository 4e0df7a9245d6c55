package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lautarip/tiendamoda/internal/domain"
)

type AttributeUC struct {
	Attributes domain.AttributeRepo
}

func (uc *AttributeUC) List(ctx context.Context) ([]domain.Attribute, error) {
	return uc.Attributes.List(ctx)
}

func (uc *AttributeUC) Create(ctx context.Context, a *domain.Attribute) error {
	if a == nil || strings.TrimSpace(a.Name) == "" {
		return errors.New("nombre vacío")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Name = strings.TrimSpace(a.Name)
	return uc.Attributes.Save(ctx, a)
}

func (uc *AttributeUC) Update(ctx context.Context, a *domain.Attribute) error {
	if a == nil || a.ID == uuid.Nil {
		return errors.New("attribute id")
	}
	return uc.Attributes.Save(ctx, a)
}

func (uc *AttributeUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("attribute id")
	}
	return uc.Attributes.Delete(ctx, id)
}

func (uc *AttributeUC) AddValue(ctx context.Context, v *domain.AttributeValue) error {
	if v == nil || v.AttributeID == uuid.Nil {
		return errors.New("attribute id")
	}
	if strings.TrimSpace(v.Value) == "" {
		return errors.New("valor vacío")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.Value = strings.TrimSpace(v.Value)
	return uc.Attributes.SaveValue(ctx, v)
}

func (uc *AttributeUC) DeleteValue(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("value id")
	}
	return uc.Attributes.DeleteValue(ctx, id)
}
