package repository

import (
	"context"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// PurchaseRepository lectura de compras para vincular movimientos PURCHASE.
type PurchaseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
}
