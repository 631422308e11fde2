package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCuadreConDeposito(repo *stubCuadreRepo, sucursalID uuid.UUID, fecha string, deposito float64) *model.Cuadre {
	c := &model.Cuadre{
		SucursalID: sucursalID,
		Fecha:      fecha,
		Totales:    model.Totales{TotalADepositar: dec(deposito)},
	}
	_ = repo.Create(context.Background(), c)
	return c
}

func seedPagoConSobrante(repo *stubPagoRepo, sucursalID uuid.UUID, fecha string, sobrante float64) *model.Pago {
	p := &model.Pago{
		SucursalID:         sucursalID,
		Fecha:              fecha,
		SobranteParaManana: dec(sobrante),
	}
	_ = repo.Create(context.Background(), p)
	return p
}

func TestRecalcular_SinRegistrosConservaElValor(t *testing.T) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(4200)

	kpi := NewKPIService(cuadres, pagos, sucursales)
	require.NoError(t, kpi.Recalcular(context.Background(), s.ID))

	// Absence of data is not evidence of zero funds.
	assert.Equal(t, "4200", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestRecalcular_GanaElRegistroMasReciente(t *testing.T) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	s := seedSucursal(sucursales, 1000)
	kpi := NewKPIService(cuadres, pagos, sucursales)
	ctx := context.Background()

	seedCuadreConDeposito(cuadres, s.ID, "2026-08-29", 3000)
	seedPagoConSobrante(pagos, s.ID, "2026-08-30", 800) // created after → later UpdatedAt

	require.NoError(t, kpi.Recalcular(ctx, s.ID))
	assert.Equal(t, "800", sucursales.sucursales[s.ID].KPIDepositos.String())

	// A newer cuadre flips the winner back.
	seedCuadreConDeposito(cuadres, s.ID, "2026-08-31", 2500)
	require.NoError(t, kpi.Recalcular(ctx, s.ID))
	assert.Equal(t, "2500", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestRecalcular_SoloCuadres(t *testing.T) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	s := seedSucursal(sucursales, 1000)
	kpi := NewKPIService(cuadres, pagos, sucursales)

	seedCuadreConDeposito(cuadres, s.ID, "2026-08-30", 1234)
	require.NoError(t, kpi.Recalcular(context.Background(), s.ID))
	assert.Equal(t, "1234", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestRecalcular_FallbackAEscaneoCompleto(t *testing.T) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	s := seedSucursal(sucursales, 1000)
	kpi := NewKPIService(cuadres, pagos, sucursales)

	seedCuadreConDeposito(cuadres, s.ID, "2026-08-30", 999)
	// Ordered query degraded (e.g. missing index) — the client-side scan
	// must still find the record.
	cuadres.ultimoErr = errors.New("missing index")

	require.NoError(t, kpi.Recalcular(context.Background(), s.ID))
	assert.Equal(t, "999", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestRecalcular_OtraSucursalNoInterfiere(t *testing.T) {
	cuadres := newStubCuadreRepo()
	pagos := newStubPagoRepo()
	sucursales := newStubSucursalRepo()
	s1 := seedSucursal(sucursales, 1000)
	s2 := seedSucursal(sucursales, 1000)
	s1.KPIDepositos = dec(777)
	kpi := NewKPIService(cuadres, pagos, sucursales)

	seedCuadreConDeposito(cuadres, s2.ID, "2026-08-30", 5000)

	require.NoError(t, kpi.Recalcular(context.Background(), s1.ID))
	assert.Equal(t, "777", sucursales.sucursales[s1.ID].KPIDepositos.String(),
		"records of another branch must never feed this branch's KPI")
}

func TestMomentoDeRegistro_FechaComoRespaldo(t *testing.T) {
	conTimestamp := momentoDeRegistro(time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC), "2026-01-01")
	assert.Equal(t, 2026, conTimestamp.Year())
	assert.Equal(t, time.August, conTimestamp.Month())

	// Zero timestamp → calendar date orders the record.
	sinTimestamp := momentoDeRegistro(time.Time{}, "2026-03-15")
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), sinTimestamp)

	// Both absent → zero time, losing to any real candidate.
	assert.True(t, momentoDeRegistro(time.Time{}, "garbage").IsZero())
}
