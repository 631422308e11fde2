package dto

import (
	"github.com/shopspring/decimal"

	"cuadrecaja/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PagoItemInput struct {
	Descripcion string          `json:"descripcion" validate:"required,min=1"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Categoria   string          `json:"categoria"   validate:"required,min=1"`
	Ref         *string         `json:"ref"`
	FileURL     *string         `json:"fileUrl"`
	FileName    *string         `json:"fileName"`
	FileMime    *string         `json:"fileMime"`
}

type GuardarPagoRequest struct {
	Fecha          string          `json:"fecha"            validate:"required,datetime=2006-01-02"`
	SucursalID     string          `json:"sucursal_id"      validate:"required,uuid"`
	Items          []PagoItemInput `json:"items"            validate:"required,min=1,dive"`
	CajaChicaUsada decimal.Decimal `json:"caja_chica_usada" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID                        string            `json:"id"`
	Fecha                     string            `json:"fecha"`
	SucursalID                string            `json:"sucursal_id"`
	Items                     []model.PagoItem  `json:"items"`
	TotalUtilizado            decimal.Decimal   `json:"total_utilizado"`
	CajaChicaUsada            decimal.Decimal   `json:"caja_chica_usada"`
	SobranteParaManana        decimal.Decimal   `json:"sobrante_para_manana"`
	KPIDepositosAtSave        decimal.Decimal   `json:"kpi_depositos_at_save"`
	CajaChicaDisponibleAtSave decimal.Decimal   `json:"caja_chica_disponible_at_save"`
	CreatedBy                 model.CreatorInfo `json:"created_by"`
	CreatedAt                 string            `json:"created_at"`
	UpdatedAt                 string            `json:"updated_at"`
}

type PagoListResponse struct {
	Data  []PagoResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
