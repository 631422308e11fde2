package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PagoItem is one disbursement line paid directly out of the day's
// deposit-bound funds (rent, utilities, recurring suppliers).
type PagoItem struct {
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Categoria   string          `json:"categoria"`
	Ref         *string         `json:"ref,omitempty"`
	FileURL     *string         `json:"fileUrl,omitempty"`
	FileName    *string         `json:"fileName,omitempty"`
	FileMime    *string         `json:"fileMime,omitempty"`
}

// Pago is a disbursement record: cash paid out of the funds that would
// otherwise go to the bank deposit.
//
// Invariant: SobranteParaManana = max(0, kpiDepositos − totalUtilizado + cajaChicaUsada).
type Pago struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha      string    `gorm:"type:date;not null;index"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`

	Items []PagoItem `gorm:"serializer:json;not null"`

	TotalUtilizado     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CajaChicaUsada     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SobranteParaManana decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Snapshots at save time — view-mode reads never consult live branch state.
	KPIDepositosAtSave        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CajaChicaDisponibleAtSave decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedBy CreatorInfo `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
