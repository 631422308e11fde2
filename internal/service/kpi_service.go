package service

import (
	"context"
	"time"

	"cuadrecaja/internal/model"
	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// KPIService resynchronizes a branch's cached "funds available for deposit"
// figure after any cuadre/pago mutation. The cache is a read-optimization —
// truth is always the latest record's own deposit figure, which is why this
// recompute is also the self-healing path after a partial write failure.
type KPIService interface {
	Recalcular(ctx context.Context, sucursalID uuid.UUID) error
}

type kpiService struct {
	cuadres    repository.CuadreRepository
	pagos      repository.PagoRepository
	sucursales repository.SucursalRepository
}

func NewKPIService(cuadres repository.CuadreRepository, pagos repository.PagoRepository, sucursales repository.SucursalRepository) KPIService {
	return &kpiService{cuadres: cuadres, pagos: pagos, sucursales: sucursales}
}

// candidatoKPI pairs a record's deposit figure with its ordering timestamp.
type candidatoKPI struct {
	momento time.Time
	monto   decimal.Decimal
}

// Recalcular picks the most recently modified record (cuadre or pago) for the
// branch and overwrites the cached KPI with its self-reported deposit figure:
// totalADepositar for cuadres, sobranteParaManana for pagos.
//
// Zero candidates → the cached figure is left UNTOUCHED (absence of data is
// not evidence of zero funds) and a warning is logged.
func (s *kpiService) Recalcular(ctx context.Context, sucursalID uuid.UUID) error {
	var candidatos []candidatoKPI

	cuadre, err := s.cuadres.FindUltimoPorSucursal(ctx, sucursalID)
	if err != nil {
		// Degraded path: ordered query failed (e.g. missing index) — scan
		// the branch's records client-side instead of giving up.
		log.Warn().Err(err).Str("sucursal_id", sucursalID.String()).
			Msg("kpi: consulta ordenada de cuadres falló, usando escaneo completo")
		cuadre = ultimoCuadreEscaneado(ctx, s.cuadres, sucursalID)
	}
	if cuadre != nil {
		candidatos = append(candidatos, candidatoKPI{
			momento: momentoDeRegistro(cuadre.UpdatedAt, cuadre.Fecha),
			monto:   cuadre.Totales.TotalADepositar,
		})
	}

	pago, err := s.pagos.FindUltimoPorSucursal(ctx, sucursalID)
	if err != nil {
		log.Warn().Err(err).Str("sucursal_id", sucursalID.String()).
			Msg("kpi: consulta ordenada de pagos falló, usando escaneo completo")
		pago = ultimoPagoEscaneado(ctx, s.pagos, sucursalID)
	}
	if pago != nil {
		candidatos = append(candidatos, candidatoKPI{
			momento: momentoDeRegistro(pago.UpdatedAt, pago.Fecha),
			monto:   pago.SobranteParaManana,
		})
	}

	if len(candidatos) == 0 {
		log.Warn().Str("sucursal_id", sucursalID.String()).
			Msg("kpi: sin cuadres ni pagos — se conserva el valor anterior")
		return nil
	}

	ganador := candidatos[0]
	for _, c := range candidatos[1:] {
		if c.momento.After(ganador.momento) {
			ganador = c
		}
	}

	return s.sucursales.ActualizarKPIDepositos(ctx, sucursalID, ganador.monto)
}

// momentoDeRegistro orders by update timestamp, falling back to the calendar
// date when the timestamp is absent (records imported without metadata).
func momentoDeRegistro(updatedAt time.Time, fecha string) time.Time {
	if !updatedAt.IsZero() {
		return updatedAt
	}
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ultimoCuadreEscaneado(ctx context.Context, repo repository.CuadreRepository, sucursalID uuid.UUID) *model.Cuadre {
	todos, err := repo.ListTodosPorSucursal(ctx, sucursalID)
	if err != nil || len(todos) == 0 {
		return nil
	}
	ultimo := &todos[0]
	for i := range todos[1:] {
		c := &todos[i+1]
		if momentoDeRegistro(c.UpdatedAt, c.Fecha).After(momentoDeRegistro(ultimo.UpdatedAt, ultimo.Fecha)) {
			ultimo = c
		}
	}
	return ultimo
}

func ultimoPagoEscaneado(ctx context.Context, repo repository.PagoRepository, sucursalID uuid.UUID) *model.Pago {
	todos, err := repo.ListTodosPorSucursal(ctx, sucursalID)
	if err != nil || len(todos) == 0 {
		return nil
	}
	ultimo := &todos[0]
	for i := range todos[1:] {
		p := &todos[i+1]
		if momentoDeRegistro(p.UpdatedAt, p.Fecha).After(momentoDeRegistro(ultimo.UpdatedAt, ultimo.Fecha)) {
			ultimo = p
		}
	}
	return ultimo
}
