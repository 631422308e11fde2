package service

import (
	"context"
	"errors"
	"fmt"

	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/model"
	"cuadrecaja/internal/money"
	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PagoService interface {
	Crear(ctx context.Context, creador model.CreatorInfo, req dto.GuardarPagoRequest) (*dto.PagoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error)
	Listar(ctx context.Context, filter repository.PagoFilter) (*dto.PagoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarPagoRequest) (*dto.PagoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pagoService struct {
	pagos      repository.PagoRepository
	sucursales repository.SucursalRepository
	kpi        KPIService
}

func NewPagoService(pagos repository.PagoRepository, sucursales repository.SucursalRepository, kpi KPIService) PagoService {
	return &pagoService{pagos: pagos, sucursales: sucursales, kpi: kpi}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Invariant: sobrante = max(0, kpiDepositos − totalUtilizado + cajaChicaUsada).

func (s *pagoService) Crear(ctx context.Context, creador model.CreatorInfo, req dto.GuardarPagoRequest) (*dto.PagoResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}

	sucursal, err := s.sucursales.FindByID(ctx, sucursalID)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	if !sucursal.Activa {
		return nil, errors.New("la sucursal está inactiva")
	}

	items := pagoItemsFromInput(req.Items)
	totalUtilizado := sumarItems(items)

	// Same uniform cap discipline as cuadres: the draw may not exceed the
	// available balance, nor the shortfall the deposit funds cannot cover.
	if err := validarUsoCajaChica(req.CajaChicaUsada, decimal.Zero, sucursal.CajaChica,
		capPago(totalUtilizado, sucursal.KPIDepositos)); err != nil {
		return nil, err
	}

	pago := &model.Pago{
		Fecha:                     req.Fecha,
		SucursalID:                sucursalID,
		Items:                     items,
		TotalUtilizado:            totalUtilizado,
		CajaChicaUsada:            req.CajaChicaUsada,
		SobranteParaManana:        calcularSobrante(sucursal.KPIDepositos, totalUtilizado, req.CajaChicaUsada),
		KPIDepositosAtSave:        sucursal.KPIDepositos,
		CajaChicaDisponibleAtSave: sucursal.CajaChica,
		CreatedBy:                 creador,
	}

	if err := s.pagos.Create(ctx, pago); err != nil {
		return nil, err
	}

	if err := s.aplicarDelta(ctx, sucursalID, req.CajaChicaUsada.Neg()); err != nil {
		return nil, err
	}

	_ = s.kpi.Recalcular(ctx, sucursalID)
	return pagoToResponse(pago), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *pagoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarPagoRequest) (*dto.PagoResponse, error) {
	pago, err := s.pagos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pago no encontrado")
	}
	if req.SucursalID != pago.SucursalID.String() {
		return nil, errors.New("no se puede cambiar la sucursal de un pago existente")
	}

	sucursal, err := s.sucursales.FindByID(ctx, pago.SucursalID)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}

	anteriorUsada := pago.CajaChicaUsada
	items := pagoItemsFromInput(req.Items)
	totalUtilizado := sumarItems(items)

	if err := validarUsoCajaChica(req.CajaChicaUsada, anteriorUsada, sucursal.CajaChica,
		capPago(totalUtilizado, pago.KPIDepositosAtSave)); err != nil {
		return nil, err
	}

	pago.Fecha = req.Fecha
	pago.Items = items
	pago.TotalUtilizado = totalUtilizado
	pago.CajaChicaUsada = req.CajaChicaUsada
	// The KPI snapshot is the figure this pago was drawn against — it stays.
	pago.SobranteParaManana = calcularSobrante(pago.KPIDepositosAtSave, totalUtilizado, req.CajaChicaUsada)
	pago.CajaChicaDisponibleAtSave = sucursal.CajaChica

	if err := s.pagos.Update(ctx, pago); err != nil {
		return nil, err
	}

	// edit delta = −(nueva − anterior)
	if err := s.aplicarDelta(ctx, pago.SucursalID, anteriorUsada.Sub(req.CajaChicaUsada)); err != nil {
		return nil, err
	}

	_ = s.kpi.Recalcular(ctx, pago.SucursalID)
	return pagoToResponse(pago), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *pagoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	pago, err := s.pagos.FindByID(ctx, id)
	if err != nil {
		return errors.New("pago no encontrado")
	}

	if err := s.pagos.Delete(ctx, id); err != nil {
		return err
	}

	// Return the draw recorded at delete time.
	if err := s.aplicarDelta(ctx, pago.SucursalID, pago.CajaChicaUsada); err != nil {
		return err
	}

	return s.kpi.Recalcular(ctx, pago.SucursalID)
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *pagoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error) {
	pago, err := s.pagos.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pago no encontrado")
	}
	return pagoToResponse(pago), nil
}

func (s *pagoService) Listar(ctx context.Context, filter repository.PagoFilter) (*dto.PagoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 31
	}
	pagos, total, err := s.pagos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		data = append(data, *pagoToResponse(&pagos[i]))
	}
	return &dto.PagoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func calcularSobrante(kpiDepositos, totalUtilizado, cajaChicaUsada decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, kpiDepositos.Sub(totalUtilizado).Add(cajaChicaUsada))
}

// capPago mirrors capCajaChica for pagos: the shortfall the deposit-bound
// funds cannot cover, evaluated at zero draw.
func capPago(totalUtilizado, kpiDepositos decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, totalUtilizado.Sub(kpiDepositos))
}

func (s *pagoService) aplicarDelta(ctx context.Context, sucursalID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return s.sucursales.AplicarDeltaCajaChica(ctx, sucursalID, delta)
}

func sumarItems(items []model.PagoItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Monto)
	}
	return total
}

func pagoItemsFromInput(in []dto.PagoItemInput) []model.PagoItem {
	out := make([]model.PagoItem, len(in))
	for i, it := range in {
		out[i] = model.PagoItem{
			Descripcion: it.Descripcion,
			Monto:       money.ToDecimal(it.Monto),
			Categoria:   it.Categoria,
			Ref:         it.Ref,
			FileURL:     it.FileURL,
			FileName:    it.FileName,
			FileMime:    it.FileMime,
		}
	}
	return out
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	return &dto.PagoResponse{
		ID:                        p.ID.String(),
		Fecha:                     p.Fecha,
		SucursalID:                p.SucursalID.String(),
		Items:                     p.Items,
		TotalUtilizado:            p.TotalUtilizado,
		CajaChicaUsada:            p.CajaChicaUsada,
		SobranteParaManana:        p.SobranteParaManana,
		KPIDepositosAtSave:        p.KPIDepositosAtSave,
		CajaChicaDisponibleAtSave: p.CajaChicaDisponibleAtSave,
		CreatedBy:                 p.CreatedBy,
		CreatedAt:                 p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:                 p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
