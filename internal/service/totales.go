package service

import (
	"github.com/shopspring/decimal"

	"cuadrecaja/internal/model"
)

// AperturaDefault is the standard opening float placed in each drawer at
// shift start when the form leaves it blank.
var AperturaDefault = decimal.NewFromInt(300)

// CalcularTotales derives the complete set of reconciliation figures from raw
// drawer counts, expenses and adjustments. It is a pure function of its
// arguments — no branch lookups, no clock, no globals — because the same
// computation backs the live form preview AND the regeneration of historical
// report summaries from a saved record's raw inputs.
//
// Sign convention: DiferenciaEfectivo positive = sobrante (surplus),
// negative = faltante (shortage). Zero counts as sobrante.
func CalcularTotales(arqueo []model.ArqueoCaja, cierre []model.CierreCaja, gastos []model.Gasto, cajaChicaUsada, faltantePagado decimal.Decimal) model.Totales {
	var t model.Totales

	for _, a := range arqueo {
		t.TotalEfectivoFisico = t.TotalEfectivoFisico.Add(a.EfectivoBruto())
		t.TotalTarjetaFisico = t.TotalTarjetaFisico.Add(a.Tarjeta)
		t.TotalMotoristaFisico = t.TotalMotoristaFisico.Add(a.Motorista)
	}

	for _, c := range cierre {
		t.TotalEfectivoSistema = t.TotalEfectivoSistema.Add(c.Efectivo)
		t.TotalTarjetaSistema = t.TotalTarjetaSistema.Add(c.Tarjeta)
		t.TotalMotoristaSistema = t.TotalMotoristaSistema.Add(c.Motorista)
	}

	// Negative amounts (refunds/corrections) flow through without a floor.
	for _, g := range gastos {
		t.TotalGastos = t.TotalGastos.Add(g.Cantidad)
	}

	t.DiferenciaEfectivo = t.TotalEfectivoFisico.Sub(t.TotalEfectivoSistema)
	t.DiferenciaAbs = t.DiferenciaEfectivo.Abs()
	t.Faltante = decimal.Max(decimal.Zero, t.DiferenciaEfectivo.Neg())

	// Portion of recorded expenses that physical cash on hand cannot cover
	// once caja chica already drawn and repaid shortages are accounted for.
	// This caps any further caja chica draw.
	t.GastosSinCobertura = decimal.Max(decimal.Zero,
		t.TotalGastos.Sub(t.TotalEfectivoFisico).Sub(cajaChicaUsada).Sub(faltantePagado))

	t.TotalADepositar = t.TotalEfectivoFisico.
		Sub(t.TotalGastos).
		Add(cajaChicaUsada).
		Add(faltantePagado)

	t.TotalGeneral = t.TotalEfectivoFisico.
		Add(t.TotalTarjetaFisico).
		Add(t.TotalMotoristaFisico)

	t.EsSobrante = t.DiferenciaEfectivo.Sign() >= 0
	if t.EsSobrante {
		t.Etiqueta = "Sobrante"
	} else {
		t.Etiqueta = "Faltante"
	}
	t.DepositoNegativo = t.TotalADepositar.IsNegative()

	return t
}

// CalcularTotalAmex prices a flavor→units map against a branch price table.
// Flavors missing from the table contribute nothing.
func CalcularTotalAmex(items map[string]int, precios map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for flavor, unidades := range items {
		precio, ok := precios[flavor]
		if !ok {
			continue
		}
		total = total.Add(precio.Mul(decimal.NewFromInt(int64(unidades))))
	}
	return total
}
