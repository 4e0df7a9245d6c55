package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lautarip/tiendamoda/internal/domain"
)

type AttributeRepo struct{ db *gorm.DB }

func NewAttributeRepo(db *gorm.DB) *AttributeRepo { return &AttributeRepo{db: db} }

func (r *AttributeRepo) Save(ctx context.Context, a *domain.Attribute) error {
	return r.db.WithContext(ctx).Omit("Values").Save(a).Error
}

func (r *AttributeRepo) List(ctx context.Context) ([]domain.Attribute, error) {
	var list []domain.Attribute
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		Order("sort_order asc, created_at asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AttributeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attribute, error) {
	var a domain.Attribute
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, created_at asc") }).
		First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttributeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.VariantAssignment{}).Where("attribute_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errors.New("atributo en uso por variantes")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&domain.AttributeValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Attribute{}, "id = ?", id).Error
	})
}

func (r *AttributeRepo) SaveValue(ctx context.Context, v *domain.AttributeValue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *AttributeRepo) DeleteValue(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.VariantAssignment{}).Where("attribute_value_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errors.New("valor en uso por variantes")
	}
	return r.db.WithContext(ctx).Delete(&domain.AttributeValue{}, "id = ?", id).Error
}
