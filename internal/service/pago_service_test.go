package service

import (
	"context"
	"testing"

	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqPago(sucursalID, fecha string, montos []float64, usada float64) dto.GuardarPagoRequest {
	items := make([]dto.PagoItemInput, len(montos))
	for i, m := range montos {
		items[i] = dto.PagoItemInput{
			Descripcion: "pago proveedor",
			Categoria:   "proveedores",
			Monto:       dec(m),
		}
	}
	return dto.GuardarPagoRequest{
		Fecha:          fecha,
		SucursalID:     sucursalID,
		Items:          items,
		CajaChicaUsada: dec(usada),
	}
}

func TestCrearPago_SobranteYSnapshots(t *testing.T) {
	svc, _, pagos, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(5000)

	resp, err := svc.Crear(context.Background(), creador(), reqPago(s.ID.String(), "2026-08-30", []float64{3000, 1500}, 0))
	require.NoError(t, err)

	assert.Equal(t, "4500", resp.TotalUtilizado.String())
	// sobrante = max(0, 5000 − 4500 + 0) = 500
	assert.Equal(t, "500", resp.SobranteParaManana.String())
	assert.Equal(t, "5000", resp.KPIDepositosAtSave.String())
	assert.Equal(t, "1000", resp.CajaChicaDisponibleAtSave.String())

	stored, err := pagos.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "500", stored.SobranteParaManana.String())
}

func TestCrearPago_SobranteNuncaNegativo(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(1000)

	// utilizado 1500 > kpi 1000, covered with a 500 draw
	resp, err := svc.Crear(context.Background(), creador(), reqPago(s.ID.String(), "2026-08-30", []float64{1500}, 500))
	require.NoError(t, err)
	// sobrante = max(0, 1000 − 1500 + 500) = 0
	assert.True(t, resp.SobranteParaManana.IsZero())
}

func TestCrearPago_AplicaDeltaDeCajaChica(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(100)

	_, err := svc.Crear(context.Background(), creador(), reqPago(s.ID.String(), "2026-08-30", []float64{400}, 300))
	require.NoError(t, err)

	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCrearPago_ExcedeCapRechazado(t *testing.T) {
	svc, _, pagos, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(5000)

	// Deposits fully cover the payments — cap is zero, any draw is refused.
	_, err := svc.Crear(context.Background(), creador(), reqPago(s.ID.String(), "2026-08-30", []float64{1000}, 200))
	assert.ErrorContains(t, err, "gastos sin cobertura")
	assert.Empty(t, pagos.pagos)
	assert.Equal(t, "1000", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestActualizarPago_KPISnapshotSeConserva(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(5000)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqPago(s.ID.String(), "2026-08-30", []float64{4500}, 0))
	require.NoError(t, err)

	// The live KPI moves after the save (Recalcular overwrote it with the
	// pago's own sobrante). The edit must still be computed against the
	// figure frozen at creation, not the current one.
	editado, err := svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqPago(s.ID.String(), "2026-08-30", []float64{4000}, 0))
	require.NoError(t, err)

	assert.Equal(t, "5000", editado.KPIDepositosAtSave.String())
	// sobrante = max(0, 5000 − 4000 + 0) = 1000
	assert.Equal(t, "1000", editado.SobranteParaManana.String())
}

func TestActualizarPago_DeltaIncremental(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(100)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqPago(s.ID.String(), "2026-08-30", []float64{400}, 300))
	require.NoError(t, err)
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())

	// 300 → 100: delta = +200
	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqPago(s.ID.String(), "2026-08-30", []float64{400}, 100))
	require.NoError(t, err)
	assert.Equal(t, "900", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestActualizarPago_SucursalInmutable(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(1000)
	otra := seedSucursal(sucursales, 500)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqPago(s.ID.String(), "2026-08-30", []float64{500}, 0))
	require.NoError(t, err)

	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqPago(otra.ID.String(), "2026-08-30", []float64{500}, 0))
	assert.ErrorContains(t, err, "no se puede cambiar la sucursal")
}

func TestEliminarPago_DevuelveLaCajaChica(t *testing.T) {
	svc, _, pagos, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(100)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqPago(s.ID.String(), "2026-08-30", []float64{400}, 300))
	require.NoError(t, err)
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())

	require.NoError(t, svc.Eliminar(ctx, uuid.MustParse(resp.ID)))
	assert.Empty(t, pagos.pagos)
	assert.Equal(t, "1000", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestPago_KPIActualizadoAlGuardar(t *testing.T) {
	svc, _, _, sucursales := buildPagoSvc()
	s := seedSucursal(sucursales, 1000)
	s.KPIDepositos = dec(5000)

	_, err := svc.Crear(context.Background(), creador(), reqPago(s.ID.String(), "2026-08-30", []float64{4500}, 0))
	require.NoError(t, err)

	// The pago is now the branch's latest record; the KPI cache follows its
	// sobrante figure.
	assert.Equal(t, "500", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestPagoItemsFromInput_NormalizaMontos(t *testing.T) {
	out := pagoItemsFromInput([]dto.PagoItemInput{
		{Descripcion: "luz", Categoria: "servicios", Monto: decimal.NewFromFloat(350.50)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "350.5", out[0].Monto.String())
	assert.IsType(t, model.PagoItem{}, out[0])
}
