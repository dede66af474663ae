package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de stock.
type MovementType string

const (
	MovementTypeENTRY      MovementType = "ENTRY"      // entrada
	MovementTypeEXIT       MovementType = "EXIT"       // salida
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT" // ajuste (cantidad absoluta)
	MovementTypePURCHASE   MovementType = "PURCHASE"   // compra a proveedor
)

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeENTRY, MovementTypeEXIT, MovementTypeADJUSTMENT, MovementTypePURCHASE:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de stock de un material.
type StockMovement struct {
	ID          string
	MaterialID  string
	Type        MovementType
	Quantity    decimal.Decimal // cantidad solicitada, siempre > 0
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Reason      string
	Reference   *string
	CompraID    *string
	CreatedAt   time.Time
	CreatedBy   string // UserID
}

// StockMovementDetail movimiento enriquecido con datos del usuario, la compra y el proveedor.
type StockMovementDetail struct {
	StockMovement
	UserName        string
	CompraNumero    *string
	ProveedorNombre *string
}
