package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos de stock (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta una fila del libro. Nunca se actualiza ni se borra.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO movimientos_stock (id, material_id, tipo, cantidad, stock_anterior, stock_nuevo,
			motivo, referencia, compra_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MaterialID, string(m.Type), m.Quantity, m.StockBefore, m.StockAfter,
		m.Reason, m.Reference, m.CompraID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// ListByMaterial últimos movimientos, más reciente primero, con nombre del usuario y datos de la compra.
func (r *StockMovementRepo) ListByMaterial(ctx context.Context, materialID string, limit int) ([]*entity.StockMovementDetail, error) {
	query := `
		SELECT m.id, m.material_id, m.tipo, m.cantidad, m.stock_anterior, m.stock_nuevo, m.motivo,
			m.referencia, m.compra_id, m.created_at, m.created_by,
			COALESCE(u.nombre, ''), c.numero, p.nombre
		FROM movimientos_stock m
		LEFT JOIN usuarios u ON u.id::text = m.created_by
		LEFT JOIN compras c ON c.id = m.compra_id
		LEFT JOIN proveedores p ON p.id = c.proveedor_id
		WHERE m.material_id = $1
		ORDER BY m.created_at DESC, m.seq DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovementDetail
	for rows.Next() {
		var d entity.StockMovementDetail
		var tipo string
		if err := rows.Scan(
			&d.ID, &d.MaterialID, &tipo, &d.Quantity, &d.StockBefore, &d.StockAfter, &d.Reason,
			&d.Reference, &d.CompraID, &d.CreatedAt, &d.CreatedBy,
			&d.UserName, &d.CompraNumero, &d.ProveedorNombre,
		); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		d.Type = entity.MovementType(tipo)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// ListAllByMaterial libro completo en orden de inserción (más antiguo primero).
func (r *StockMovementRepo) ListAllByMaterial(ctx context.Context, materialID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, material_id, tipo, cantidad, stock_anterior, stock_nuevo, motivo, referencia,
			compra_id, created_at, created_by
		FROM movimientos_stock
		WHERE material_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list libro: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var tipo string
	err := row.Scan(
		&m.ID, &m.MaterialID, &tipo, &m.Quantity, &m.StockBefore, &m.StockAfter, &m.Reason,
		&m.Reference, &m.CompraID, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(tipo)
	return &m, nil
}
