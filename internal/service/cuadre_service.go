package service

import (
	"context"
	"errors"
	"fmt"

	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/infra"
	"cuadrecaja/internal/model"
	"cuadrecaja/internal/money"
	"cuadrecaja/internal/repository"
	"cuadrecaja/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CuadreService interface {
	// Previsualizar recomputes derived totals for the live form. Pure — no
	// store access, safe to call on every field change.
	Previsualizar(req dto.PreviewCuadreRequest) *dto.TotalesResponse
	Crear(ctx context.Context, creador model.CreatorInfo, req dto.GuardarCuadreRequest) (*dto.CuadreResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CuadreResponse, error)
	Listar(ctx context.Context, filter repository.CuadreFilter) (*dto.CuadreListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarCuadreRequest) (*dto.CuadreResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	// GenerarReporte renders the closing-report PDF on demand and returns
	// its path. The async pipeline produces the same file after each save.
	GenerarReporte(ctx context.Context, id uuid.UUID) (string, error)
}

type cuadreService struct {
	cuadres        repository.CuadreRepository
	sucursales     repository.SucursalRepository
	kpi            KPIService
	dispatcher     *worker.Dispatcher
	pdfStoragePath string
}

func NewCuadreService(
	cuadres repository.CuadreRepository,
	sucursales repository.SucursalRepository,
	kpi KPIService,
	dispatcher *worker.Dispatcher,
	pdfStoragePath string,
) CuadreService {
	return &cuadreService{
		cuadres:        cuadres,
		sucursales:     sucursales,
		kpi:            kpi,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// ── Previsualizar ─────────────────────────────────────────────────────────────

func (s *cuadreService) Previsualizar(req dto.PreviewCuadreRequest) *dto.TotalesResponse {
	totales := CalcularTotales(
		arqueoFromInput(req.Arqueo),
		cierreFromInput(req.Cierre),
		gastosFromInput(req.Gastos),
		req.CajaChicaUsada,
		req.FaltantePagado,
	)
	return &dto.TotalesResponse{
		Totales:              totales,
		TotalADepositarTexto: money.Format(totales.TotalADepositar),
		DiferenciaTexto:      fmt.Sprintf("%s: %s", totales.Etiqueta, money.Format(totales.DiferenciaAbs)),
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Uniqueness (sucursal, fecha) is pre-checked for a friendly error; the
// composite unique index closes the remaining check-then-act window.

func (s *cuadreService) Crear(ctx context.Context, creador model.CreatorInfo, req dto.GuardarCuadreRequest) (*dto.CuadreResponse, error) {
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

	existente, err := s.cuadres.FindBySucursalYFecha(ctx, sucursalID, req.Fecha)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, errors.New("Ya existe un cuadre para esta sucursal en esa fecha")
	}

	arqueo := arqueoFromInput(req.Arqueo)
	cierre := cierreFromInput(req.Cierre)
	gastos := gastosFromInput(req.Gastos)

	totales := CalcularTotales(arqueo, cierre, gastos, req.CajaChicaUsada, req.FaltantePagado)

	// Validation happens BEFORE any write — a rejected draw mutates nothing.
	if err := validarUsoCajaChica(req.CajaChicaUsada, decimal.Zero, sucursal.CajaChica,
		capCajaChica(totales, req.FaltantePagado)); err != nil {
		return nil, err
	}

	cuadre := &model.Cuadre{
		Fecha:          req.Fecha,
		SucursalID:     sucursalID,
		Arqueo:         arqueo,
		Cierre:         cierre,
		Gastos:         gastos,
		Comentario:     req.Comentario,
		Categorias:     req.Categorias,
		CajaChicaUsada: req.CajaChicaUsada,
		FaltantePagado: req.FaltantePagado,
		// Snapshot of the balance the form was working against, pre-delta.
		CajaChicaDisponibleAtSave: sucursal.CajaChica,
		Extras:                    s.construirExtras(req.Extras, sucursal),
		Totales:                   totales,
		CreatedBy:                 creador,
	}

	if err := s.cuadres.Create(ctx, cuadre); err != nil {
		return nil, err
	}

	// create delta = −usada + ajustes (cash returned via the sentinel category)
	delta := model.TotalAjustesCajaChica(gastos).Sub(req.CajaChicaUsada)
	if err := s.aplicarDelta(ctx, sucursalID, delta); err != nil {
		return nil, err
	}

	s.postGuardado(ctx, cuadre)
	return cuadreToResponse(cuadre), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Every edit computes its delta against the immediately-prior persisted
// state, never against the original creation state, so repeated edits
// compose correctly.

func (s *cuadreService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarCuadreRequest) (*dto.CuadreResponse, error) {
	cuadre, err := s.cuadres.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuadre no encontrado")
	}
	if req.SucursalID != cuadre.SucursalID.String() {
		return nil, errors.New("no se puede cambiar la sucursal de un cuadre existente")
	}

	sucursal, err := s.sucursales.FindByID(ctx, cuadre.SucursalID)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}

	if req.Fecha != cuadre.Fecha {
		otro, err := s.cuadres.FindBySucursalYFecha(ctx, cuadre.SucursalID, req.Fecha)
		if err != nil {
			return nil, err
		}
		if otro != nil && otro.ID != cuadre.ID {
			return nil, errors.New("Ya existe un cuadre para esta sucursal en esa fecha")
		}
	}

	anteriorUsada := cuadre.CajaChicaUsada
	anteriorAjustes := model.TotalAjustesCajaChica(cuadre.Gastos)

	arqueo := arqueoFromInput(req.Arqueo)
	cierre := cierreFromInput(req.Cierre)
	gastos := gastosFromInput(req.Gastos)
	totales := CalcularTotales(arqueo, cierre, gastos, req.CajaChicaUsada, req.FaltantePagado)

	if err := validarUsoCajaChica(req.CajaChicaUsada, anteriorUsada, sucursal.CajaChica,
		capCajaChica(totales, req.FaltantePagado)); err != nil {
		return nil, err
	}

	cuadre.Fecha = req.Fecha
	cuadre.Arqueo = arqueo
	cuadre.Cierre = cierre
	cuadre.Gastos = gastos
	cuadre.Comentario = req.Comentario
	cuadre.Categorias = req.Categorias
	cuadre.CajaChicaUsada = req.CajaChicaUsada
	cuadre.FaltantePagado = req.FaltantePagado
	cuadre.CajaChicaDisponibleAtSave = sucursal.CajaChica
	cuadre.Extras = s.construirExtras(req.Extras, sucursal)
	cuadre.Totales = totales

	if err := s.cuadres.Update(ctx, cuadre); err != nil {
		return nil, err
	}

	// edit delta = −(nueva − anterior usada) + (nuevos − anteriores ajustes)
	delta := anteriorUsada.Sub(req.CajaChicaUsada).
		Add(model.TotalAjustesCajaChica(gastos).Sub(anteriorAjustes))
	if err := s.aplicarDelta(ctx, cuadre.SucursalID, delta); err != nil {
		return nil, err
	}

	s.postGuardado(ctx, cuadre)
	return cuadreToResponse(cuadre), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *cuadreService) Eliminar(ctx context.Context, id uuid.UUID) error {
	cuadre, err := s.cuadres.FindByID(ctx, id)
	if err != nil {
		return errors.New("cuadre no encontrado")
	}

	if err := s.cuadres.Delete(ctx, id); err != nil {
		return err
	}

	// Undo the record's live delta: return the draw, take back the adjustments.
	delta := cuadre.CajaChicaUsada.Sub(model.TotalAjustesCajaChica(cuadre.Gastos))
	if err := s.aplicarDelta(ctx, cuadre.SucursalID, delta); err != nil {
		return err
	}

	return s.kpi.Recalcular(ctx, cuadre.SucursalID)
}

// ── Lecturas ──────────────────────────────────────────────────────────────────
// Reads render exclusively from the persisted snapshots: the historical
// totals shown must match what was true at save time, even if the branch
// balance has since moved for unrelated reasons.

func (s *cuadreService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CuadreResponse, error) {
	cuadre, err := s.cuadres.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuadre no encontrado")
	}
	return cuadreToResponse(cuadre), nil
}

func (s *cuadreService) Listar(ctx context.Context, filter repository.CuadreFilter) (*dto.CuadreListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 31
	}
	cuadres, total, err := s.cuadres.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CuadreResponse, 0, len(cuadres))
	for i := range cuadres {
		data = append(data, *cuadreToResponse(&cuadres[i]))
	}
	return &dto.CuadreListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cuadreService) GenerarReporte(ctx context.Context, id uuid.UUID) (string, error) {
	cuadre, err := s.cuadres.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("cuadre no encontrado")
	}
	sucursal, err := s.sucursales.FindByID(ctx, cuadre.SucursalID)
	if err != nil {
		return "", errors.New("sucursal no encontrada")
	}
	return infra.GenerateCuadrePDF(cuadre, sucursal, s.pdfStoragePath)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// capCajaChica is the expense-shortfall ceiling on a caja chica draw,
// evaluated at zero draw: max(0, gastos − efectivo físico − faltante pagado).
func capCajaChica(t model.Totales, faltantePagado decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero,
		t.TotalGastos.Sub(t.TotalEfectivoFisico).Sub(faltantePagado))
}

// validarUsoCajaChica rejects any INCREASE of the draw that exceeds the
// available balance, and any total draw above the shortfall cap. Decreases
// always pass — they return money to the branch.
func validarUsoCajaChica(nuevaUsada, anteriorUsada, disponible, tope decimal.Decimal) error {
	incremento := nuevaUsada.Sub(anteriorUsada)
	if incremento.Sign() <= 0 {
		return nil
	}
	if incremento.GreaterThan(disponible) {
		return errors.New("La caja chica solicitada excede el saldo disponible")
	}
	if nuevaUsada.GreaterThan(tope) {
		return errors.New("La caja chica solicitada excede los gastos sin cobertura de efectivo")
	}
	return nil
}

func (s *cuadreService) aplicarDelta(ctx context.Context, sucursalID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return s.sucursales.AplicarDeltaCajaChica(ctx, sucursalID, delta)
}

// postGuardado runs the after-save obligations shared by create and edit:
// resync the branch KPI and enqueue the closing-report job (best-effort).
func (s *cuadreService) postGuardado(ctx context.Context, cuadre *model.Cuadre) {
	_ = s.kpi.Recalcular(ctx, cuadre.SucursalID)
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReporte(ctx, worker.ReporteJobPayload{CuadreID: cuadre.ID.String()})
	}
}

func (s *cuadreService) construirExtras(in *dto.ExtrasCuadreInput, sucursal *model.Sucursal) model.ExtrasCuadre {
	var extras model.ExtrasCuadre
	if in == nil {
		return extras
	}
	if sucursal.Extras.PedidosYa {
		extras.PedidosYaCantidad = in.PedidosYaCantidad
	}
	if sucursal.Extras.AmericanExpress && len(in.AmericanExpressItems) > 0 {
		extras.AmericanExpress = model.AmexDetalle{
			Items: in.AmericanExpressItems,
			Total: CalcularTotalAmex(in.AmericanExpressItems, sucursal.Extras.AmericanExpressPrecios),
		}
	}
	return extras
}

func arqueoFromInput(in []dto.ArqueoCajaInput) []model.ArqueoCaja {
	out := make([]model.ArqueoCaja, len(in))
	for i, a := range in {
		apertura := AperturaDefault
		if a.Apertura != nil {
			apertura = money.ToDecimal(a.Apertura)
		}
		out[i] = model.ArqueoCaja{
			Q200: a.Q200, Q100: a.Q100, Q50: a.Q50, Q20: a.Q20,
			Q10: a.Q10, Q5: a.Q5, Q1: a.Q1,
			Apertura:  apertura,
			Tarjeta:   money.ToDecimal(a.Tarjeta),
			Motorista: money.ToDecimal(a.Motorista),
		}
	}
	return out
}

func cierreFromInput(in []dto.CierreCajaInput) []model.CierreCaja {
	out := make([]model.CierreCaja, len(in))
	for i, c := range in {
		out[i] = model.CierreCaja{
			Efectivo:  money.ToDecimal(c.Efectivo),
			Tarjeta:   money.ToDecimal(c.Tarjeta),
			Motorista: money.ToDecimal(c.Motorista),
		}
	}
	return out
}

func gastosFromInput(in []dto.GastoInput) []model.Gasto {
	out := make([]model.Gasto, len(in))
	for i, g := range in {
		out[i] = model.Gasto{
			Categoria:   g.Categoria,
			Descripcion: g.Descripcion,
			Cantidad:    money.ToDecimal(g.Cantidad),
			Ref:         g.Ref,
			FileURL:     g.FileURL,
			FileName:    g.FileName,
			FileMime:    g.FileMime,
		}
	}
	return out
}

func cuadreToResponse(c *model.Cuadre) *dto.CuadreResponse {
	return &dto.CuadreResponse{
		ID:                        c.ID.String(),
		Fecha:                     c.Fecha,
		SucursalID:                c.SucursalID.String(),
		Arqueo:                    c.Arqueo,
		Cierre:                    c.Cierre,
		Gastos:                    c.Gastos,
		Comentario:                c.Comentario,
		Categorias:                c.Categorias,
		CajaChicaUsada:            c.CajaChicaUsada,
		FaltantePagado:            c.FaltantePagado,
		CajaChicaDisponibleAtSave: c.CajaChicaDisponibleAtSave,
		Extras:                    c.Extras,
		Totales:                   c.Totales,
		CreatedBy:                 c.CreatedBy,
		CreatedAt:                 c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:                 c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
