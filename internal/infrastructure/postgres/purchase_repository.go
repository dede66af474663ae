package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo lectura de compras (las gestiona el módulo de compras).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// GetByID obtiene una compra. nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	if !validID(id) {
		return nil, nil
	}
	var p entity.Purchase
	err := r.q.QueryRow(ctx,
		`SELECT id, numero, proveedor_id, total, fecha FROM compras WHERE id = $1`, id,
	).Scan(&p.ID, &p.Numero, &p.ProveedorID, &p.Total, &p.Fecha)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compra: %w", err)
	}
	return &p, nil
}
