package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// MaterialFilter filtros para el listado de materiales.
type MaterialFilter struct {
	Search      string // coincide con código o nombre
	SoloActivos bool
	Limit       int
	Offset      int
}

// MaterialDescriptiveUpdate campos descriptivos a actualizar; nil = sin cambio.
// Nunca incluye el stock: ese campo solo lo escribe el libro de stock.
type MaterialDescriptiveUpdate struct {
	Nombre         *string
	Descripcion    *string
	UnidadMedida   *string
	StockMinimo    *decimal.Decimal
	PrecioUnitario *decimal.Decimal
	ProveedorID    *string
}

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Material, error)
	// GetForUpdate obtiene el material y bloquea su fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, int, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Material, error)
	// UpdateStock escribe solo stock_actual.
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	// UpdateDescriptive escribe solo los campos presentes; devuelve ErrNotFound si no existe.
	UpdateDescriptive(ctx context.Context, id string, in MaterialDescriptiveUpdate) error
	Deactivate(ctx context.Context, id string) error
}
