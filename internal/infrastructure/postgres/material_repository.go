package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, codigo, nombre, descripcion, unidad_medida, stock_actual, stock_minimo,
	precio_unitario, proveedor_id, activo, created_at, updated_at`

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un nuevo material con su stock inicial.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materiales (id, codigo, nombre, descripcion, unidad_medida, stock_actual, stock_minimo,
			precio_unitario, proveedor_id, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Codigo, m.Nombre, m.Descripcion, m.UnidadMedida, m.StockActual, m.StockMinimo,
		m.PrecioUnitario, m.ProveedorID, m.Activo, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.Invalid("proveedorId", "proveedor inexistente")
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID. nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materiales WHERE id = $1`, id)
}

// GetByCodigo obtiene un material por código. nil si no existe.
func (r *MaterialRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Material, error) {
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materiales WHERE codigo = $1`, codigo)
}

// GetForUpdate lee el material bloqueando su fila hasta el fin de la transacción.
// Solo tiene sentido con un Querier transaccional.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materiales WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRepo) getOne(ctx context.Context, query string, arg any) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// List lista materiales por código con paginación y total.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter) ([]*entity.Material, int, error) {
	var (
		where []string
		args  []any
	)
	if f.SoloActivos {
		where = append(where, "activo")
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(codigo ILIKE $%d OR nombre ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM materiales`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materiales: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM materiales%s ORDER BY codigo LIMIT $%d OFFSET $%d`,
		materialColumns, cond, len(args)-1, len(args))
	list, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListBelowMinimum materiales activos con stock_actual < stock_minimo.
func (r *MaterialRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Material, error) {
	return r.queryMany(ctx, `SELECT `+materialColumns+` FROM materiales
		WHERE activo AND stock_actual < stock_minimo ORDER BY codigo`)
}

func (r *MaterialRepo) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materiales: %w", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateStock escribe solo stock_actual.
func (r *MaterialRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE materiales SET stock_actual = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDescriptive actualiza solo las columnas presentes en in.
func (r *MaterialRepo) UpdateDescriptive(ctx context.Context, id string, in repository.MaterialDescriptiveUpdate) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Nombre != nil {
		add("nombre", *in.Nombre)
	}
	if in.Descripcion != nil {
		add("descripcion", *in.Descripcion)
	}
	if in.UnidadMedida != nil {
		add("unidad_medida", *in.UnidadMedida)
	}
	if in.StockMinimo != nil {
		add("stock_minimo", *in.StockMinimo)
	}
	if in.PrecioUnitario != nil {
		add("precio_unitario", *in.PrecioUnitario)
	}
	if in.ProveedorID != nil {
		add("proveedor_id", *in.ProveedorID)
	}

	cmd, err := r.q.Exec(ctx, `UPDATE materiales SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("proveedorId", "proveedor inexistente")
		}
		return fmt.Errorf("update material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate baja lógica.
func (r *MaterialRepo) Deactivate(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `UPDATE materiales SET activo = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Codigo, &m.Nombre, &m.Descripcion, &m.UnidadMedida, &m.StockActual, &m.StockMinimo,
		&m.PrecioUnitario, &m.ProveedorID, &m.Activo, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
