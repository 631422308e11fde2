package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtrasSucursal is the canonical shape of a branch's optional income streams.
// Legacy documents stored these flags under assorted alias keys; everything is
// normalized to this shape at the repository boundary, so callers never probe
// alternate names.
type ExtrasSucursal struct {
	PedidosYa       bool `json:"pedidosYa"`
	AmericanExpress bool `json:"americanExpress"`
	// AmericanExpressPrecios maps flavor name → unit price for branches that
	// sell through the alternate card network.
	AmericanExpressPrecios map[string]decimal.Decimal `json:"americanExpressPrecios,omitempty"`
}

// Normalizar guarantees canonical invariants on a loaded extras blob.
func (e *ExtrasSucursal) Normalizar() {
	if e.AmericanExpress && e.AmericanExpressPrecios == nil {
		e.AmericanExpressPrecios = map[string]decimal.Decimal{}
	}
}

// Sucursal is the long-lived aggregate: a physical business location.
//
// CajaChica is the single piece of mutable shared state in the system. It is
// NEVER overwritten with an absolute value — every mutation is a signed delta
// tied to one cuadre or pago create/update/delete, applied with an atomic
// SQL increment so concurrent writers compose.
type Sucursal struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string         `gorm:"not null"`
	Empresa   string         `gorm:"not null"`
	Ubicacion string         `gorm:"not null"`
	CajaChica decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Extras    ExtrasSucursal `gorm:"serializer:json"`
	// KPIDepositos caches "funds available for deposit" — a denormalized
	// read-optimization, resynchronized by the KPI service after every
	// cuadre/pago mutation. Source of truth is always the latest record.
	KPIDepositos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activa       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
