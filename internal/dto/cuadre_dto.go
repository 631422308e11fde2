package dto

import (
	"github.com/shopspring/decimal"

	"cuadrecaja/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ArqueoCajaInput is one physical drawer as entered in the form. Apertura is
// optional — nil falls back to the standard opening float.
type ArqueoCajaInput struct {
	Q200      int              `json:"q200"      validate:"min=0"`
	Q100      int              `json:"q100"      validate:"min=0"`
	Q50       int              `json:"q50"       validate:"min=0"`
	Q20       int              `json:"q20"       validate:"min=0"`
	Q10       int              `json:"q10"       validate:"min=0"`
	Q5        int              `json:"q5"        validate:"min=0"`
	Q1        int              `json:"q1"        validate:"min=0"`
	Apertura  *decimal.Decimal `json:"apertura"`
	Tarjeta   decimal.Decimal  `json:"tarjeta"`
	Motorista decimal.Decimal  `json:"motorista"`
}

type CierreCajaInput struct {
	Efectivo  decimal.Decimal `json:"efectivo"`
	Tarjeta   decimal.Decimal `json:"tarjeta"`
	Motorista decimal.Decimal `json:"motorista"`
}

// GastoInput deliberately has no floor on cantidad: refunds and corrections
// are entered as negative expense amounts.
type GastoInput struct {
	Categoria   string          `json:"categoria"   validate:"required,min=1"`
	Descripcion string          `json:"descripcion" validate:"required,min=1"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Ref         *string         `json:"ref"`
	FileURL     *string         `json:"fileUrl"`
	FileName    *string         `json:"fileName"`
	FileMime    *string         `json:"fileMime"`
}

type ExtrasCuadreInput struct {
	PedidosYaCantidad decimal.Decimal `json:"pedidosYaCantidad" validate:"min=0"`
	// AmericanExpressItems maps flavor → units sold; totals come from the
	// branch price table at save time.
	AmericanExpressItems map[string]int `json:"americanExpressItems" validate:"omitempty,dive,min=0"`
}

type GuardarCuadreRequest struct {
	Fecha          string             `json:"fecha"            validate:"required,datetime=2006-01-02"`
	SucursalID     string             `json:"sucursal_id"      validate:"required,uuid"`
	Arqueo         []ArqueoCajaInput  `json:"arqueo"           validate:"required,len=3,dive"`
	Cierre         []CierreCajaInput  `json:"cierre"           validate:"required,len=3,dive"`
	Gastos         []GastoInput       `json:"gastos"           validate:"dive"`
	Comentario     string             `json:"comentario"`
	Categorias     []string           `json:"categorias"`
	CajaChicaUsada decimal.Decimal    `json:"caja_chica_usada" validate:"min=0"`
	FaltantePagado decimal.Decimal    `json:"faltante_pagado"  validate:"min=0"`
	Extras         *ExtrasCuadreInput `json:"extras"`
}

// PreviewCuadreRequest is GuardarCuadreRequest minus persistence concerns:
// the UI posts the raw form on every change and renders the derived totals.
type PreviewCuadreRequest struct {
	Arqueo         []ArqueoCajaInput `json:"arqueo"           validate:"required,len=3,dive"`
	Cierre         []CierreCajaInput `json:"cierre"           validate:"required,len=3,dive"`
	Gastos         []GastoInput      `json:"gastos"           validate:"dive"`
	CajaChicaUsada decimal.Decimal   `json:"caja_chica_usada" validate:"min=0"`
	FaltantePagado decimal.Decimal   `json:"faltante_pagado"  validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CuadreResponse struct {
	ID                        string             `json:"id"`
	Fecha                     string             `json:"fecha"`
	SucursalID                string             `json:"sucursal_id"`
	Arqueo                    []model.ArqueoCaja `json:"arqueo"`
	Cierre                    []model.CierreCaja `json:"cierre"`
	Gastos                    []model.Gasto      `json:"gastos"`
	Comentario                string             `json:"comentario"`
	Categorias                []string           `json:"categorias"`
	CajaChicaUsada            decimal.Decimal    `json:"caja_chica_usada"`
	FaltantePagado            decimal.Decimal    `json:"faltante_pagado"`
	CajaChicaDisponibleAtSave decimal.Decimal    `json:"caja_chica_disponible_at_save"`
	Extras                    model.ExtrasCuadre `json:"extras"`
	Totales                   model.Totales      `json:"totales"`
	CreatedBy                 model.CreatorInfo  `json:"created_by"`
	CreatedAt                 string             `json:"created_at"`
	UpdatedAt                 string             `json:"updated_at"`
}

type CuadreListResponse struct {
	Data  []CuadreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// TotalesResponse is the preview payload: derived figures plus the formatted
// headline strings the form shows verbatim.
type TotalesResponse struct {
	Totales              model.Totales `json:"totales"`
	TotalADepositarTexto string        `json:"total_a_depositar_texto"`
	DiferenciaTexto      string        `json:"diferencia_texto"`
}
