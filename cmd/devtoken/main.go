// devtoken emite un Bearer token firmado con JWT_SECRET para probar la API sin el proveedor de
// identidad. No funciona con APP_ENV=production.
//
// Uso: go run ./cmd/devtoken <user-id> <nombre> <rol>
// Roles: admin, deposito, vendedor. La vigencia sale de JWT_EXPIRATION_MINUTES.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/pkg/config"
	"github.com/alumac/alumac-api/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, w io.Writer) error {
	if cfg.App.Env == "production" {
		return fmt.Errorf("devtoken no está disponible en producción")
	}
	if len(args) != 3 {
		return fmt.Errorf("uso: devtoken <user-id> <nombre> <rol>")
	}
	userID, name, role := args[0], args[1], args[2]
	switch role {
	case entity.RoleAdmin, entity.RoleDeposito, entity.RoleVendedor:
	default:
		return fmt.Errorf("rol desconocido %q", role)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, name, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Bearer %s\n", tok)
	return err
}
