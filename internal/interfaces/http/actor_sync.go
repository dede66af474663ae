package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/pkg/logger"
)

// ActorStore persiste el usuario autenticado para que el historial muestre su nombre.
type ActorStore interface {
	Upsert(ctx context.Context, user *entity.User) error
}

// SyncActor registra al usuario del token antes de una escritura. Una falla se registra
// en el log y no interrumpe la petición: el movimiento guarda el ID aunque falte el nombre.
func SyncActor(store ActorStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := GetUserName(c)
		if store == nil || name == "" {
			return c.Next()
		}
		u := &entity.User{ID: GetUserID(c), Name: name, Role: GetRole(c)}
		if err := store.Upsert(c.UserContext(), u); err != nil && log != nil {
			log.Warn().Err(err).Str("user_id", u.ID).Msg("no se pudo sincronizar el usuario")
		}
		return c.Next()
	}
}
