package repository

import (
	"context"

	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SucursalRepository interface {
	Create(ctx context.Context, s *model.Sucursal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	List(ctx context.Context, incluirInactivas bool) ([]model.Sucursal, error)
	Update(ctx context.Context, s *model.Sucursal) error
	Desactivar(ctx context.Context, id uuid.UUID) error

	// AplicarDeltaCajaChica adds a signed delta to the branch's petty-cash
	// balance with a single atomic UPDATE. Deltas are commutative, so
	// concurrent writers compose without a read-modify-write race.
	AplicarDeltaCajaChica(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// ActualizarKPIDepositos overwrites the cached deposit KPI.
	ActualizarKPIDepositos(ctx context.Context, id uuid.UUID, monto decimal.Decimal) error
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) Create(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	// Canonical extras shape is guaranteed at the data-access boundary.
	s.Extras.Normalizar()
	return &s, nil
}

func (r *sucursalRepo) List(ctx context.Context, incluirInactivas bool) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if !incluirInactivas {
		q = q.Where("activa = true")
	}
	if err := q.Find(&sucursales).Error; err != nil {
		return nil, err
	}
	for i := range sucursales {
		sucursales[i].Extras.Normalizar()
	}
	return sucursales, nil
}

func (r *sucursalRepo) Update(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sucursalRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sucursal{}).Where("id = ?", id).Update("activa", false).Error
}

func (r *sucursalRepo) AplicarDeltaCajaChica(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Sucursal{}).
		Where("id = ?", id).
		Update("caja_chica", gorm.Expr("caja_chica + ?", delta)).Error
}

func (r *sucursalRepo) ActualizarKPIDepositos(ctx context.Context, id uuid.UUID, monto decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Sucursal{}).
		Where("id = ?", id).
		Update("kpi_depositos", monto).Error
}
