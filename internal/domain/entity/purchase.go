package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier proveedor de materiales.
type Supplier struct {
	ID     string
	Nombre string
	CUIT   string
}

// Purchase compra a un proveedor; puede originar movimientos PURCHASE.
type Purchase struct {
	ID          string
	Numero      string
	ProveedorID string
	Total       decimal.Decimal
	Fecha       time.Time
}
