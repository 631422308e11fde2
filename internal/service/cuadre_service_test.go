package service

import (
	"context"
	"testing"

	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tresCajasVacias builds the three-drawer form with no cash counted.
func tresCajasVacias() []dto.ArqueoCajaInput {
	return make([]dto.ArqueoCajaInput, 3)
}

func tresCierresVacios() []dto.CierreCajaInput {
	return make([]dto.CierreCajaInput, 3)
}

// reqCuadre builds a save request whose only cash movement is expenses paid
// from caja chica: empty drawers, gastos for the given amount, and the draw.
func reqCuadre(sucursalID, fecha string, gastos, usada float64) dto.GuardarCuadreRequest {
	return dto.GuardarCuadreRequest{
		Fecha:      fecha,
		SucursalID: sucursalID,
		Arqueo:     tresCajasVacias(),
		Cierre:     tresCierresVacios(),
		Gastos: []dto.GastoInput{
			{Categoria: "insumos", Descripcion: "compra", Cantidad: dec(gastos)},
		},
		CajaChicaUsada: dec(usada),
	}
}

func creador() model.CreatorInfo {
	return model.CreatorInfo{UID: uuid.NewString(), Username: "cajera1"}
}

func TestCrearCuadre_CongelaTotalesYSnapshot(t *testing.T) {
	svc, cuadres, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)

	resp, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 600, 300))
	require.NoError(t, err)

	// Snapshot is the balance the form was saved against, BEFORE the delta.
	assert.Equal(t, "1000", resp.CajaChicaDisponibleAtSave.String())
	// deposit = 0 − 600 + 300 = −300, frozen into the record
	assert.Equal(t, "-300", resp.Totales.TotalADepositar.String())
	assert.True(t, resp.Totales.DepositoNegativo)

	stored, err := cuadres.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, resp.Totales, stored.Totales)

	// create delta = −300
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCrearCuadre_FechaDuplicadaRechazada(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)

	_, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 100, 0))
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 200, 0))
	assert.ErrorContains(t, err, "Ya existe un cuadre")

	// A different day still works.
	_, err = svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-31", 200, 0))
	assert.NoError(t, err)
}

func TestCrearCuadre_SucursalInactivaRechazada(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	s.Activa = false

	_, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 100, 0))
	assert.ErrorContains(t, err, "inactiva")
}

func TestCrearCuadre_ExcedeSaldoNoMutaNada(t *testing.T) {
	svc, cuadres, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 200)

	// draw 500 > balance 200
	_, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 800, 500))
	assert.ErrorContains(t, err, "excede el saldo disponible")

	// Rejection happens before any write: no record, balance intact.
	assert.Empty(t, cuadres.cuadres)
	assert.Equal(t, "200", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCrearCuadre_ExcedeCapDeGastosRechazado(t *testing.T) {
	svc, cuadres, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)

	// gastos 100 with empty drawers → cap 100; draw 300 exceeds it
	_, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 100, 300))
	assert.ErrorContains(t, err, "gastos sin cobertura")
	assert.Empty(t, cuadres.cuadres)
	assert.Equal(t, "1000", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCuadre_CicloCompletoDeSaldo(t *testing.T) {
	// balance 1000 → create usada=300 → 700 → edit usada=500 → 500 →
	// delete → 1000 again.
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-30", 600, 300))
	require.NoError(t, err)
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())

	id := uuid.MustParse(resp.ID)
	_, err = svc.Actualizar(ctx, id, reqCuadre(s.ID.String(), "2026-08-30", 600, 500))
	require.NoError(t, err)
	assert.Equal(t, "500", sucursales.sucursales[s.ID].CajaChica.String())

	require.NoError(t, svc.Eliminar(ctx, id))
	assert.Equal(t, "1000", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCuadre_AjusteDevuelveDinero(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)

	req := reqCuadre(s.ID.String(), "2026-08-30", 0, 0)
	req.Gastos = []dto.GastoInput{
		{Categoria: model.CategoriaAjusteCajaChica, Descripcion: "reintegro", Cantidad: dec(150)},
	}

	_, err := svc.Crear(context.Background(), creador(), req)
	require.NoError(t, err)

	// create delta = ajustes − usada = +150
	assert.Equal(t, "1150", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestActualizarCuadre_SucursalInmutable(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	otra := seedSucursal(sucursales, 500)

	resp, err := svc.Crear(context.Background(), creador(), reqCuadre(s.ID.String(), "2026-08-30", 100, 0))
	require.NoError(t, err)

	_, err = svc.Actualizar(context.Background(), uuid.MustParse(resp.ID),
		reqCuadre(otra.ID.String(), "2026-08-30", 100, 0))
	assert.ErrorContains(t, err, "no se puede cambiar la sucursal")
}

func TestActualizarCuadre_CambioDeFechaVerificaUnicidad(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	_, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-29", 100, 0))
	require.NoError(t, err)
	resp, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-30", 100, 0))
	require.NoError(t, err)

	// Moving the second cuadre onto the first one's date must fail.
	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqCuadre(s.ID.String(), "2026-08-29", 100, 0))
	assert.ErrorContains(t, err, "Ya existe un cuadre")

	// Keeping its own date is always fine.
	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqCuadre(s.ID.String(), "2026-08-30", 100, 0))
	assert.NoError(t, err)
}

func TestActualizarCuadre_RechazoNoMutaSaldo(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-30", 600, 300))
	require.NoError(t, err)
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())

	// Raising the draw to 900 needs an increase of 600 < 700 available,
	// but the total 900 exceeds the 600 expense cap.
	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqCuadre(s.ID.String(), "2026-08-30", 600, 900))
	assert.Error(t, err)
	assert.Equal(t, "700", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestActualizarCuadre_ReducirUsadaSiemprePasa(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-30", 600, 500))
	require.NoError(t, err)
	assert.Equal(t, "500", sucursales.sucursales[s.ID].CajaChica.String())

	_, err = svc.Actualizar(ctx, uuid.MustParse(resp.ID), reqCuadre(s.ID.String(), "2026-08-30", 600, 100))
	require.NoError(t, err)
	assert.Equal(t, "900", sucursales.sucursales[s.ID].CajaChica.String())
}

func TestCuadre_KPIActualizadoAlGuardar(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)

	req := reqCuadre(s.ID.String(), "2026-08-30", 0, 0)
	req.Arqueo[0].Q200 = 10 // 2000 in cash

	_, err := svc.Crear(context.Background(), creador(), req)
	require.NoError(t, err)

	// KPI = deposit of the latest cuadre = 2000
	assert.Equal(t, "2000", sucursales.sucursales[s.ID].KPIDepositos.String())
}

func TestObtenerCuadre_RindeDesdeSnapshot(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	resp, err := svc.Crear(ctx, creador(), reqCuadre(s.ID.String(), "2026-08-30", 600, 300))
	require.NoError(t, err)

	// Move the live balance for unrelated reasons.
	sucursales.sucursales[s.ID].CajaChica = dec(9999)

	leido, err := svc.Obtener(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "1000", leido.CajaChicaDisponibleAtSave.String(),
		"historical reads must not re-derive live branch state")
	assert.Equal(t, resp.Totales, leido.Totales)
}

func TestListarCuadres_FiltroPorSucursal(t *testing.T) {
	svc, _, _, sucursales := buildCuadreSvc()
	s1 := seedSucursal(sucursales, 1000)
	s2 := seedSucursal(sucursales, 1000)
	ctx := context.Background()

	_, err := svc.Crear(ctx, creador(), reqCuadre(s1.ID.String(), "2026-08-29", 100, 0))
	require.NoError(t, err)
	_, err = svc.Crear(ctx, creador(), reqCuadre(s1.ID.String(), "2026-08-30", 100, 0))
	require.NoError(t, err)
	_, err = svc.Crear(ctx, creador(), reqCuadre(s2.ID.String(), "2026-08-30", 100, 0))
	require.NoError(t, err)

	lista, err := svc.Listar(ctx, cuadreFilterFor(s1.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), lista.Total)
	for _, c := range lista.Data {
		assert.Equal(t, s1.ID.String(), c.SucursalID)
	}
}

func TestPrevisualizar_FormateaTextos(t *testing.T) {
	svc, _, _, _ := buildCuadreSvc()

	arqueo := tresCajasVacias()
	arqueo[0].Q200 = 5 // 1000 físico
	resp := svc.Previsualizar(dto.PreviewCuadreRequest{
		Arqueo: arqueo,
		Cierre: tresCierresVacios(),
	})

	assert.Equal(t, "L 1,000.00", resp.TotalADepositarTexto)
	assert.Equal(t, "Sobrante: L 1,000.00", resp.DiferenciaTexto)
}

func TestArqueoFromInput_AperturaPorDefecto(t *testing.T) {
	explicita := dec(250)
	in := []dto.ArqueoCajaInput{
		{},                     // blank → default float
		{Apertura: &explicita}, // explicit value kept
	}
	out := arqueoFromInput(in)
	assert.True(t, out[0].Apertura.Equal(AperturaDefault))
	assert.True(t, out[1].Apertura.Equal(explicita))
}
