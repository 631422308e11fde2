package repository

import (
	"context"
	"errors"

	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PagoFilter narrows listings by branch and date range.
type PagoFilter struct {
	SucursalID *uuid.UUID
	Desde      string
	Hasta      string
	Page       int
	Limit      int
}

type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	// FindUltimoPorSucursal returns the most recently modified pago,
	// or (nil, nil) when the branch has none.
	FindUltimoPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.Pago, error)
	ListTodosPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Pago, error)
	List(ctx context.Context, filter PagoFilter) ([]model.Pago, int64, error)
	Update(ctx context.Context, p *model.Pago) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) FindUltimoPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ?", sucursalID).
		Order("updated_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) ListTodosPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Where("sucursal_id = ?", sucursalID).Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) List(ctx context.Context, filter PagoFilter) ([]model.Pago, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pago{})
	if filter.SucursalID != nil {
		q = q.Where("sucursal_id = ?", *filter.SucursalID)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pagos []model.Pago
	err := q.Order("fecha DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&pagos).Error
	return pagos, total, err
}

func (r *pagoRepo) Update(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pagoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Pago{}, id).Error
}
