package dto

import (
	"github.com/shopspring/decimal"

	"cuadrecaja/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ExtrasSucursalInput struct {
	PedidosYa              bool                       `json:"pedidosYa"`
	AmericanExpress        bool                       `json:"americanExpress"`
	AmericanExpressPrecios map[string]decimal.Decimal `json:"americanExpressPrecios" validate:"omitempty,dive,min=0"`
}

type CrearSucursalRequest struct {
	Nombre    string               `json:"nombre"     validate:"required,min=2,max=100"`
	Empresa   string               `json:"empresa"    validate:"required,min=2,max=100"`
	Ubicacion string               `json:"ubicacion"  validate:"required,min=2,max=200"`
	CajaChica decimal.Decimal      `json:"caja_chica" validate:"min=0"`
	Extras    *ExtrasSucursalInput `json:"extras"`
}

type ActualizarSucursalRequest struct {
	Nombre    string               `json:"nombre"    validate:"omitempty,min=2,max=100"`
	Empresa   string               `json:"empresa"   validate:"omitempty,min=2,max=100"`
	Ubicacion string               `json:"ubicacion" validate:"omitempty,min=2,max=200"`
	Extras    *ExtrasSucursalInput `json:"extras"`
	// La caja chica no se actualiza por aquí: sólo cambia vía deltas de
	// cuadres y pagos.
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SucursalResponse struct {
	ID           string               `json:"id"`
	Nombre       string               `json:"nombre"`
	Empresa      string               `json:"empresa"`
	Ubicacion    string               `json:"ubicacion"`
	CajaChica    decimal.Decimal      `json:"caja_chica"`
	Extras       model.ExtrasSucursal `json:"extras"`
	KPIDepositos decimal.Decimal      `json:"kpi_depositos"`
	Activa       bool                 `json:"activa"`
}
