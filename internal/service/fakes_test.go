package service

// fakes_test.go — in-memory repository stubs shared by the service tests.
// They emulate what the tests depend on from the real gorm repositories:
// (nil, nil) on absent lookups, UpdatedAt bumped on every write, and the
// atomic petty-cash delta applied to the stored branch.

import (
	"context"
	"errors"
	"time"

	"cuadrecaja/internal/model"
	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// relojStub hands out strictly increasing timestamps so "latest record"
// ordering is deterministic in tests.
type relojStub struct {
	t time.Time
}

func (r *relojStub) siguiente() time.Time {
	r.t = r.t.Add(time.Second)
	return r.t
}

var reloj = &relojStub{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}

// ── Sucursales ───────────────────────────────────────────────────────────────

type stubSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
	deltaErr   error // when set, AplicarDeltaCajaChica fails
}

func newStubSucursalRepo() *stubSucursalRepo {
	return &stubSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
}

func (r *stubSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sucursales[s.ID] = s
	return nil
}

func (r *stubSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copia := *s
	copia.Extras.Normalizar()
	return &copia, nil
}

func (r *stubSucursalRepo) List(_ context.Context, incluirInactivas bool) ([]model.Sucursal, error) {
	out := make([]model.Sucursal, 0, len(r.sucursales))
	for _, s := range r.sucursales {
		if !s.Activa && !incluirInactivas {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	r.sucursales[s.ID] = s
	return nil
}

func (r *stubSucursalRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	s, ok := r.sucursales[id]
	if !ok {
		return errors.New("not found")
	}
	s.Activa = false
	return nil
}

func (r *stubSucursalRepo) AplicarDeltaCajaChica(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if r.deltaErr != nil {
		return r.deltaErr
	}
	s, ok := r.sucursales[id]
	if !ok {
		return errors.New("not found")
	}
	s.CajaChica = s.CajaChica.Add(delta)
	return nil
}

func (r *stubSucursalRepo) ActualizarKPIDepositos(_ context.Context, id uuid.UUID, monto decimal.Decimal) error {
	s, ok := r.sucursales[id]
	if !ok {
		return errors.New("not found")
	}
	s.KPIDepositos = monto
	return nil
}

var _ repository.SucursalRepository = (*stubSucursalRepo)(nil)

// ── Cuadres ──────────────────────────────────────────────────────────────────

type stubCuadreRepo struct {
	cuadres   map[uuid.UUID]*model.Cuadre
	ultimoErr error // when set, FindUltimoPorSucursal fails (forces the scan path)
}

func newStubCuadreRepo() *stubCuadreRepo {
	return &stubCuadreRepo{cuadres: make(map[uuid.UUID]*model.Cuadre)}
}

func (r *stubCuadreRepo) Create(_ context.Context, c *model.Cuadre) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = reloj.siguiente()
	c.UpdatedAt = c.CreatedAt
	r.cuadres[c.ID] = c
	return nil
}

func (r *stubCuadreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cuadre, error) {
	c, ok := r.cuadres[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copia := *c
	return &copia, nil
}

func (r *stubCuadreRepo) FindBySucursalYFecha(_ context.Context, sucursalID uuid.UUID, fecha string) (*model.Cuadre, error) {
	for _, c := range r.cuadres {
		if c.SucursalID == sucursalID && c.Fecha == fecha {
			copia := *c
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *stubCuadreRepo) FindUltimoPorSucursal(_ context.Context, sucursalID uuid.UUID) (*model.Cuadre, error) {
	if r.ultimoErr != nil {
		return nil, r.ultimoErr
	}
	var ultimo *model.Cuadre
	for _, c := range r.cuadres {
		if c.SucursalID != sucursalID {
			continue
		}
		if ultimo == nil || c.UpdatedAt.After(ultimo.UpdatedAt) {
			ultimo = c
		}
	}
	if ultimo == nil {
		return nil, nil
	}
	copia := *ultimo
	return &copia, nil
}

func (r *stubCuadreRepo) ListTodosPorSucursal(_ context.Context, sucursalID uuid.UUID) ([]model.Cuadre, error) {
	var out []model.Cuadre
	for _, c := range r.cuadres {
		if c.SucursalID == sucursalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCuadreRepo) List(_ context.Context, filter repository.CuadreFilter) ([]model.Cuadre, int64, error) {
	var out []model.Cuadre
	for _, c := range r.cuadres {
		if filter.SucursalID != nil && c.SucursalID != *filter.SucursalID {
			continue
		}
		if filter.Desde != "" && c.Fecha < filter.Desde {
			continue
		}
		if filter.Hasta != "" && c.Fecha > filter.Hasta {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCuadreRepo) Update(_ context.Context, c *model.Cuadre) error {
	if _, ok := r.cuadres[c.ID]; !ok {
		return errors.New("not found")
	}
	c.UpdatedAt = reloj.siguiente()
	copia := *c
	r.cuadres[c.ID] = &copia
	return nil
}

func (r *stubCuadreRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.cuadres[id]; !ok {
		return errors.New("not found")
	}
	delete(r.cuadres, id)
	return nil
}

var _ repository.CuadreRepository = (*stubCuadreRepo)(nil)

// ── Pagos ────────────────────────────────────────────────────────────────────

type stubPagoRepo struct {
	pagos     map[uuid.UUID]*model.Pago
	ultimoErr error
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) Create(_ context.Context, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = reloj.siguiente()
	p.UpdatedAt = p.CreatedAt
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copia := *p
	return &copia, nil
}

func (r *stubPagoRepo) FindUltimoPorSucursal(_ context.Context, sucursalID uuid.UUID) (*model.Pago, error) {
	if r.ultimoErr != nil {
		return nil, r.ultimoErr
	}
	var ultimo *model.Pago
	for _, p := range r.pagos {
		if p.SucursalID != sucursalID {
			continue
		}
		if ultimo == nil || p.UpdatedAt.After(ultimo.UpdatedAt) {
			ultimo = p
		}
	}
	if ultimo == nil {
		return nil, nil
	}
	copia := *ultimo
	return &copia, nil
}

func (r *stubPagoRepo) ListTodosPorSucursal(_ context.Context, sucursalID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.SucursalID == sucursalID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPagoRepo) List(_ context.Context, filter repository.PagoFilter) ([]model.Pago, int64, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if filter.SucursalID != nil && p.SucursalID != *filter.SucursalID {
			continue
		}
		if filter.Desde != "" && p.Fecha < filter.Desde {
			continue
		}
		if filter.Hasta != "" && p.Fecha > filter.Hasta {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPagoRepo) Update(_ context.Context, p *model.Pago) error {
	if _, ok := r.pagos[p.ID]; !ok {
		return errors.New("not found")
	}
	p.UpdatedAt = reloj.siguiente()
	copia := *p
	r.pagos[p.ID] = &copia
	return nil
}

func (r *stubPagoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.pagos[id]; !ok {
		return errors.New("not found")
	}
	delete(r.pagos, id)
	return nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── Builders ─────────────────────────────────────────────────────────────────

func seedSucursal(repo *stubSucursalRepo, cajaChica float64) *model.Sucursal {
	s := &model.Sucursal{
		ID:        uuid.New(),
		Nombre:    "Centro",
		Empresa:   "Pizzas del Valle",
		Ubicacion: "Tegucigalpa",
		CajaChica: decimal.NewFromFloat(cajaChica),
		Activa:    true,
	}
	repo.sucursales[s.ID] = s
	return s
}

func cuadreFilterFor(sucursalID uuid.UUID) repository.CuadreFilter {
	return repository.CuadreFilter{SucursalID: &sucursalID, Page: 1, Limit: 31}
}

func buildCuadreSvc() (CuadreService, *stubCuadreRepo, *stubPagoRepo, *stubSucursalRepo) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	kpi := NewKPIService(cuadres, pagos, sucursales)
	svc := NewCuadreService(cuadres, sucursales, kpi, nil, "")
	return svc, cuadres, pagos, sucursales
}

func buildPagoSvc() (PagoService, *stubCuadreRepo, *stubPagoRepo, *stubSucursalRepo) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	kpi := NewKPIService(cuadres, pagos, sucursales)
	svc := NewPagoService(pagos, sucursales, kpi)
	return svc, cuadres, pagos, sucursales
}
