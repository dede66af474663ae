package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un insumo del inventario (perfiles, vidrios, accesorios).
// StockActual solo se modifica a través de movimientos de stock.
type Material struct {
	ID             string
	Codigo         string // único
	Nombre         string
	Descripcion    string
	UnidadMedida   string // kg, m, unidad, barra, m2
	StockActual    decimal.Decimal
	StockMinimo    decimal.Decimal
	PrecioUnitario decimal.Decimal
	ProveedorID    *string
	Activo         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BelowMinimum indica si el stock actual está por debajo del mínimo configurado.
func (m *Material) BelowMinimum() bool {
	return m.StockActual.LessThan(m.StockMinimo)
}
