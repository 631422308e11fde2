package repository

import (
	"context"
	"errors"

	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CuadreFilter narrows listings by branch and date range.
type CuadreFilter struct {
	SucursalID *uuid.UUID
	Desde      string // inclusive, YYYY-MM-DD; empty = open
	Hasta      string
	Page       int
	Limit      int
}

type CuadreRepository interface {
	Create(ctx context.Context, c *model.Cuadre) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cuadre, error)
	// FindBySucursalYFecha returns (nil, nil) when no record exists —
	// the uniqueness pre-check distinguishes "absent" from a query failure.
	FindBySucursalYFecha(ctx context.Context, sucursalID uuid.UUID, fecha string) (*model.Cuadre, error)
	// FindUltimoPorSucursal returns the most recently modified cuadre,
	// or (nil, nil) when the branch has none.
	FindUltimoPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.Cuadre, error)
	// ListTodosPorSucursal is the degraded fallback: fetch everything for
	// the branch and let the caller scan client-side.
	ListTodosPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Cuadre, error)
	List(ctx context.Context, filter CuadreFilter) ([]model.Cuadre, int64, error)
	Update(ctx context.Context, c *model.Cuadre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cuadreRepo struct{ db *gorm.DB }

func NewCuadreRepository(db *gorm.DB) CuadreRepository { return &cuadreRepo{db: db} }

func (r *cuadreRepo) Create(ctx context.Context, c *model.Cuadre) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuadreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cuadre, error) {
	var c model.Cuadre
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuadreRepo) FindBySucursalYFecha(ctx context.Context, sucursalID uuid.UUID, fecha string) (*model.Cuadre, error) {
	var c model.Cuadre
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND fecha = ?", sucursalID, fecha).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuadreRepo) FindUltimoPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.Cuadre, error) {
	var c model.Cuadre
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ?", sucursalID).
		Order("updated_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuadreRepo) ListTodosPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Cuadre, error) {
	var cuadres []model.Cuadre
	err := r.db.WithContext(ctx).Where("sucursal_id = ?", sucursalID).Find(&cuadres).Error
	return cuadres, err
}

func (r *cuadreRepo) List(ctx context.Context, filter CuadreFilter) ([]model.Cuadre, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cuadre{})
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

	var cuadres []model.Cuadre
	err := q.Order("fecha DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&cuadres).Error
	return cuadres, total, err
}

func (r *cuadreRepo) Update(ctx context.Context, c *model.Cuadre) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cuadreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cuadre{}, id).Error
}
