package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Upsert registra al usuario autenticado. IDs que no son UUID se ignoran: los movimientos
// guardan el actor como texto y simplemente quedan sin nombre en el historial.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	if !validID(u.ID) {
		return nil
	}
	query := `
		INSERT INTO usuarios (id, email, nombre, rol)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email      = COALESCE(EXCLUDED.email, usuarios.email),
			nombre     = EXCLUDED.nombre,
			rol        = EXCLUDED.rol,
			updated_at = now()
		WHERE usuarios.nombre IS DISTINCT FROM EXCLUDED.nombre
		   OR usuarios.rol IS DISTINCT FROM EXCLUDED.rol
		   OR (EXCLUDED.email IS NOT NULL AND usuarios.email IS DISTINCT FROM EXCLUDED.email)`
	if _, err := r.q.Exec(ctx, query, u.ID, u.Email, u.Name, u.Role); err != nil {
		return fmt.Errorf("upsert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Devuelve nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id::text, COALESCE(email, ''), nombre, rol, created_at, updated_at
		FROM usuarios WHERE id = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}
