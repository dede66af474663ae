package repository

import (
	"context"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// UserRepository espejo local de los usuarios del proveedor de identidad.
// El historial de movimientos lo usa para resolver nombres.
type UserRepository interface {
	// Upsert inserta el usuario o actualiza nombre y rol si ya existe.
	Upsert(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
