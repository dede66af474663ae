package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/materiales/:id/movimientos.
type RecordMovementRequest struct {
	Type      string          `json:"type" validate:"required,oneof=ENTRY EXIT ADJUSTMENT PURCHASE"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason" validate:"required,max=500"`
	Reference *string         `json:"reference,omitempty" validate:"omitempty,max=200"`
	CompraID  *string         `json:"compraId,omitempty" validate:"omitempty,uuid"`
}

// StockMovementResponse un movimiento del libro de stock.
type StockMovementResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"materialId"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stockBefore"`
	StockAfter  decimal.Decimal `json:"stockAfter"`
	Reason      string          `json:"reason"`
	Reference   *string         `json:"reference,omitempty"`
	CompraID    *string         `json:"compraId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// MaterialStockSnapshot estado del material tras un movimiento.
type MaterialStockSnapshot struct {
	ID           string          `json:"id"`
	StockActual  decimal.Decimal `json:"stockActual"`
	StockMinimo  decimal.Decimal `json:"stockMinimo"`
	UnidadMedida string          `json:"unidadMedida"`
}

// RecordMovementResponse sobre de resultado de recordMovement.
type RecordMovementResponse struct {
	Movement StockMovementResponse `json:"movement"`
	Material MaterialStockSnapshot `json:"material"`
}

// MovementHistoryItem movimiento enriquecido con usuario y compra/proveedor.
type MovementHistoryItem struct {
	StockMovementResponse
	UserName        string  `json:"userName"`
	CompraNumero    *string `json:"compraNumero,omitempty"`
	ProveedorNombre *string `json:"proveedorNombre,omitempty"`
}

// MovementHistoryResponse historial de movimientos, más reciente primero.
type MovementHistoryResponse struct {
	MaterialID string                `json:"materialId"`
	Limit      int                   `json:"limit"`
	Items      []MovementHistoryItem `json:"items"`
}

// LedgerAuditResponse resultado de reproducir el libro de un material.
type LedgerAuditResponse struct {
	MaterialID      string          `json:"materialId"`
	Consistent      bool            `json:"consistent"`
	Movements       int             `json:"movements"`
	ExpectedStock   decimal.Decimal `json:"expectedStock"`
	ActualStock     decimal.Decimal `json:"actualStock"`
	FirstMismatchID *string         `json:"firstMismatchId,omitempty"`
}
