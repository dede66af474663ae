package repository

import (
	"context"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de stock (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByMaterial devuelve los últimos `limit` movimientos, más reciente primero, con usuario, compra y proveedor.
	ListByMaterial(ctx context.Context, materialID string, limit int) ([]*entity.StockMovementDetail, error)
	// ListAllByMaterial devuelve todo el libro del material en orden cronológico (más antiguo primero).
	ListAllByMaterial(ctx context.Context, materialID string) ([]*entity.StockMovement, error)
}
