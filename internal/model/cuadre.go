package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaAjusteCajaChica is the reserved expense category that marks cash
// being RETURNED to caja chica instead of spent. Matched exactly.
const CategoriaAjusteCajaChica = "ajuste caja chica"

// denominaciones is the fixed bill/coin set counted in each drawer.
var denominaciones = []int64{200, 100, 50, 20, 10, 5, 1}

// ArqueoCaja is one physical drawer count: per-denomination quantities plus
// the opening float and the drawer's card/delivery sales.
type ArqueoCaja struct {
	Q200 int `json:"q200"`
	Q100 int `json:"q100"`
	Q50  int `json:"q50"`
	Q20  int `json:"q20"`
	Q10  int `json:"q10"`
	Q5   int `json:"q5"`
	Q1   int `json:"q1"`
	// Apertura is the float placed in the drawer at shift start.
	Apertura  decimal.Decimal `json:"apertura"`
	Tarjeta   decimal.Decimal `json:"tarjeta"`
	Motorista decimal.Decimal `json:"motorista"`
}

// EfectivoBruto is the drawer's gross physical cash: Σ quantity × denomination.
// Gross — the apertura float is inside the drawer and is NOT subtracted here.
func (a ArqueoCaja) EfectivoBruto() decimal.Decimal {
	cantidades := []int{a.Q200, a.Q100, a.Q50, a.Q20, a.Q10, a.Q5, a.Q1}
	total := decimal.Zero
	for i, q := range cantidades {
		total = total.Add(decimal.NewFromInt(int64(q) * denominaciones[i]))
	}
	return total
}

// CierreCaja is one system-reported drawer: what the POS says was sold.
type CierreCaja struct {
	Efectivo  decimal.Decimal `json:"efectivo"`
	Tarjeta   decimal.Decimal `json:"tarjeta"`
	Motorista decimal.Decimal `json:"motorista"`
}

// Gasto is an expense line item paid out of the day's drawer cash.
// A Gasto with Categoria == CategoriaAjusteCajaChica represents cash returned
// to caja chica and participates in the ledger delta, not in spending.
type Gasto struct {
	Categoria   string          `json:"categoria"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Ref         *string         `json:"ref,omitempty"`
	FileURL     *string         `json:"fileUrl,omitempty"`
	FileName    *string         `json:"fileName,omitempty"`
	FileMime    *string         `json:"fileMime,omitempty"`
}

// AmexDetalle records alternate-card-network sales by flavor; Total is
// derived from the branch's price table at save time.
type AmexDetalle struct {
	Items map[string]int  `json:"items,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// ExtrasCuadre captures the optional extra income streams of one day.
type ExtrasCuadre struct {
	PedidosYaCantidad decimal.Decimal `json:"pedidosYaCantidad"`
	AmericanExpress   AmexDetalle     `json:"americanExpress"`
}

// Totales is the full set of derived figures computed by the totals engine
// and frozen into the record at save time, so a historical view (or PDF)
// renders without re-deriving live branch state.
type Totales struct {
	TotalEfectivoFisico   decimal.Decimal `json:"totalEfectivoFisico"`
	TotalTarjetaFisico    decimal.Decimal `json:"totalTarjetaFisico"`
	TotalMotoristaFisico  decimal.Decimal `json:"totalMotoristaFisico"`
	TotalEfectivoSistema  decimal.Decimal `json:"totalEfectivoSistema"`
	TotalTarjetaSistema   decimal.Decimal `json:"totalTarjetaSistema"`
	TotalMotoristaSistema decimal.Decimal `json:"totalMotoristaSistema"`
	TotalGastos           decimal.Decimal `json:"totalGastos"`
	// DiferenciaEfectivo = físico − sistema. Positive = sobrante.
	DiferenciaEfectivo decimal.Decimal `json:"diferenciaEfectivo"`
	DiferenciaAbs      decimal.Decimal `json:"diferenciaAbs"`
	Faltante           decimal.Decimal `json:"faltante"`
	// GastosSinCobertura caps how much caja chica may additionally be drawn.
	GastosSinCobertura decimal.Decimal `json:"gastosSinCobertura"`
	TotalADepositar    decimal.Decimal `json:"totalADepositar"`
	TotalGeneral       decimal.Decimal `json:"totalGeneral"`
	EsSobrante         bool            `json:"esSobrante"`
	Etiqueta           string          `json:"etiqueta"` // "Sobrante" | "Faltante"
	DepositoNegativo   bool            `json:"depositoNegativo"`
}

// CreatorInfo is the frozen identity of whoever saved the record.
type CreatorInfo struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Cuadre is the daily reconciliation record: one per (sucursal, fecha).
// Uniqueness is enforced both by a service pre-check (friendly error) and by
// the composite unique index (closes the check-then-act race window).
type Cuadre struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha      string    `gorm:"type:date;not null;uniqueIndex:idx_cuadres_sucursal_fecha,priority:2"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cuadres_sucursal_fecha,priority:1"`

	Arqueo     []ArqueoCaja `gorm:"serializer:json;not null"`
	Cierre     []CierreCaja `gorm:"serializer:json;not null"`
	Gastos     []Gasto      `gorm:"serializer:json"`
	Comentario string
	Categorias []string `gorm:"serializer:json"`

	CajaChicaUsada decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FaltantePagado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// CajaChicaDisponibleAtSave is the branch balance read when the form was
	// saved, before this record's own delta was applied.
	CajaChicaDisponibleAtSave decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Extras  ExtrasCuadre `gorm:"serializer:json"`
	Totales Totales      `gorm:"serializer:json;not null"`

	CreatedBy CreatorInfo `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalAjustesCajaChica sums the expense lines whose category exactly matches
// the reserved adjustment sentinel.
func TotalAjustesCajaChica(gastos []Gasto) decimal.Decimal {
	total := decimal.Zero
	for _, g := range gastos {
		if g.Categoria == CategoriaAjusteCajaChica {
			total = total.Add(g.Cantidad)
		}
	}
	return total
}
