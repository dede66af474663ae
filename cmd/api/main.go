package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/alumac/alumac-api/docs"
	"github.com/alumac/alumac-api/internal/application/inventory"
	"github.com/alumac/alumac-api/internal/application/usecase"
	"github.com/alumac/alumac-api/internal/infrastructure/notify"
	"github.com/alumac/alumac-api/internal/infrastructure/observability"
	infrapdf "github.com/alumac/alumac-api/internal/infrastructure/pdf"
	"github.com/alumac/alumac-api/internal/infrastructure/postgres"
	httpRouter "github.com/alumac/alumac-api/internal/interfaces/http"
	"github.com/alumac/alumac-api/internal/worker"
	"github.com/alumac/alumac-api/pkg/config"
	"github.com/alumac/alumac-api/pkg/logger"
)

// @title           ALUMAC API
// @version         1.0
// @description     Libro de stock de materiales: movimientos, historial, auditoría y kardex.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Otel, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema")
	}

	// Publicadores fuera de banda: opcionales, un fallo al conectar no impide arrancar.
	var publishers []worker.Publisher
	if cfg.Redis.URL != "" {
		rdb, err := notify.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, alertas de bajo stock deshabilitadas")
		} else {
			defer rdb.Close()
			publishers = append(publishers, notify.NewRedisPublisher(rdb, cfg.Redis.LowStockChannel))
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub := notify.NewKafkaPublisher(notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
	}
	dispatcher := worker.NewDispatcher(log, cfg.Ledger.NotifyWorkers, cfg.Ledger.NotifyQueueSize, publishers...)

	materialRepo := postgres.NewMaterialRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, time.Duration(cfg.Ledger.LockTimeoutMs)*time.Millisecond)

	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, materialRepo, purchaseRepo, log,
		inventory.WithEvents(dispatcher),
		inventory.WithLockRetries(cfg.Ledger.LockRetries),
	)
	listMovementsUC := inventory.NewListMovementsUseCase(materialRepo, movementRepo, cfg.Ledger.DefaultHistory, cfg.Ledger.MaxHistory)
	ledgerAuditUC := inventory.NewLedgerAuditUseCase(txRunner)
	kardexUC := inventory.NewKardexPDFUseCase(materialRepo, movementRepo, infrapdf.NewMarotoKardexGenerator(), cfg.Ledger.MaxHistory)
	materialUC := usecase.NewMaterialUseCase(materialRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodDelete}, ","),
	}))
	if cfg.HTTP.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.HTTP.RateLimit,
			Expiration: time.Minute,
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "ALUMAC API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		DB:             pool,
		Materials:      materialUC,
		RecordMovement: recordMovementUC,
		ListMovements:  listMovementsUC,
		LedgerAudit:    ledgerAuditUC,
		Kardex:         kardexUC,
		Users:          userRepo,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("eventos pendientes descartados")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
