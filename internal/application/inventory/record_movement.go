package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alumac/alumac-api/internal/application/dto"
	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
	"github.com/alumac/alumac-api/internal/domain/stock"
	"github.com/alumac/alumac-api/pkg/logger"
)

const tracerName = "github.com/alumac/alumac-api/internal/application/inventory"

// RecordMovementUseCase registra movimientos de stock de forma transaccional: bloquea la fila del
// material (SELECT FOR UPDATE), calcula el nuevo stock, inserta el movimiento y actualiza el material
// en la misma transacción.
type RecordMovementUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	purchaseRepo repository.PurchaseRepository
	events       EventSink
	log          *logger.Logger
	tracer       trace.Tracer

	lockRetries int
	now         func() time.Time
	newBackOff  func() backoff.BackOff
}

// Option configura el caso de uso.
type Option func(*RecordMovementUseCase)

// WithEvents conecta el despachador de eventos fuera de banda.
func WithEvents(sink EventSink) Option {
	return func(uc *RecordMovementUseCase) {
		if sink != nil {
			uc.events = sink
		}
	}
}

// WithLockRetries fija cuántas veces se reintenta la transacción ante un conflicto de bloqueo.
func WithLockRetries(n int) Option {
	return func(uc *RecordMovementUseCase) {
		if n >= 0 {
			uc.lockRetries = n
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *RecordMovementUseCase) { uc.now = now }
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	purchaseRepo repository.PurchaseRepository,
	log *logger.Logger,
	opts ...Option,
) *RecordMovementUseCase {
	uc := &RecordMovementUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		purchaseRepo: purchaseRepo,
		events:       nopSink{},
		log:          log.Named("stock_ledger"),
		tracer:       otel.Tracer(tracerName),
		lockRetries:  3,
		now:          time.Now,
	}
	uc.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 20 * time.Millisecond
		b.MaxInterval = 250 * time.Millisecond
		return b
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// MovementInput entrada de recordMovement. ActorID lo provee la capa de autenticación.
type MovementInput struct {
	MaterialID string
	ActorID    string
	Type       entity.MovementType
	Quantity   decimal.Decimal
	Reason     string
	Reference  *string
	CompraID   *string
}

// MovementResult movimiento creado y estado del material tras el commit.
type MovementResult struct {
	Movement *entity.StockMovement
	Material *entity.Material
}

// RecordMovement valida la entrada, verifica que el material exista y esté activo y aplica el
// movimiento de forma atómica. Errores: domain.ErrInvalidInput y domain.ErrNotFound antes de abrir
// la transacción; domain.ErrConcurrencyConflict si se agotan los reintentos; domain.ErrPersistence
// ante cualquier otra falla de almacenamiento (resultado desconocido: releer el historial).
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.RecordMovement", trace.WithAttributes(
		attribute.String("material.id", in.MaterialID),
		attribute.String("movement.type", string(in.Type)),
	))
	defer span.End()

	res, err := uc.recordMovement(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("movement.id", res.Movement.ID),
		attribute.String("stock.after", res.Movement.StockAfter.String()),
	)
	return res, nil
}

func (uc *RecordMovementUseCase) recordMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := validateMovement(&in); err != nil {
		return nil, err
	}

	material, err := uc.materialRepo.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "leer material", Err: err}
	}
	if material == nil || !material.Activo {
		return nil, domain.ErrNotFound
	}
	if in.CompraID != nil {
		purchase, err := uc.purchaseRepo.GetByID(ctx, *in.CompraID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "leer compra", Err: err}
		}
		if purchase == nil {
			return nil, domain.ErrNotFound
		}
	}

	var result *MovementResult
	attempt := 0
	op := func() error {
		attempt++
		r, err := uc.applyInTx(ctx, in)
		if err == nil {
			result = r
			return nil
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.log.Warn().Err(err).Str("material_id", in.MaterialID).Int("intento", attempt).
				Msg("conflicto de bloqueo, reintentando movimiento")
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(uc.newBackOff(), uint64(uc.lockRetries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, uc.classify(in, err)
	}

	uc.log.Info().
		Str("material_id", in.MaterialID).
		Str("movement_id", result.Movement.ID).
		Str("type", string(in.Type)).
		Str("quantity", in.Quantity.String()).
		Str("stock_before", result.Movement.StockBefore.String()).
		Str("stock_after", result.Movement.StockAfter.String()).
		Str("actor_id", in.ActorID).
		Msg("movimiento de stock registrado")

	for _, evt := range eventsFor(result.Movement, result.Material) {
		uc.events.Enqueue(evt)
	}
	return result, nil
}

// applyInTx ejecuta una transacción completa: lock, cálculo, insert del movimiento y update del material.
func (uc *RecordMovementUseCase) applyInTx(ctx context.Context, in MovementInput) (*MovementResult, error) {
	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error {
		material, err := materialRepo.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		// pudo desactivarse entre la verificación previa y el bloqueo
		if material == nil || !material.Activo {
			return domain.ErrNotFound
		}

		after, err := stock.NextStock(material.StockActual, in.Type, in.Quantity)
		if err != nil {
			return domain.Invalid("type", err.Error())
		}
		if after.GreaterThan(stock.MaxQuantity) {
			return domain.Invalid("quantity", "el stock resultante excede el máximo "+stock.MaxQuantity.StringFixed(stock.QuantityScale))
		}

		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			MaterialID:  material.ID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			StockBefore: material.StockActual,
			StockAfter:  after,
			Reason:      in.Reason,
			Reference:   in.Reference,
			CompraID:    in.CompraID,
			CreatedAt:   uc.now(),
			CreatedBy:   in.ActorID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := materialRepo.UpdateStock(ctx, material.ID, after); err != nil {
			return err
		}

		material.StockActual = after
		material.UpdatedAt = mov.CreatedAt
		result = &MovementResult{Movement: mov, Material: material}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *RecordMovementUseCase) classify(in MovementInput, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		return err
	case errors.Is(err, domain.ErrConcurrencyConflict):
		uc.log.Warn().Err(err).Str("material_id", in.MaterialID).Msg("reintentos de bloqueo agotados")
		return domain.ErrConcurrencyConflict
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return pe
	}
	uc.log.Error().Err(err).Str("material_id", in.MaterialID).Msg("falla al registrar movimiento")
	return &domain.PersistenceError{Op: "registrar movimiento", Err: err}
}

func validateMovement(in *MovementInput) error {
	in.MaterialID = strings.TrimSpace(in.MaterialID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.MaterialID == "" {
		return domain.Invalid("materialId", "requerido")
	}
	if strings.TrimSpace(in.ActorID) == "" {
		return domain.Invalid("actorId", "requerido")
	}
	if !in.Type.Valid() {
		return domain.Invalid("type", "debe ser ENTRY, EXIT, ADJUSTMENT o PURCHASE")
	}
	if !in.Quantity.IsPositive() {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if err := stock.CheckQuantity(in.Quantity); err != nil {
		return domain.Invalid("quantity", err.Error())
	}
	if in.Reason == "" {
		return domain.Invalid("reason", "requerido")
	}
	if in.Reference != nil {
		ref := strings.TrimSpace(*in.Reference)
		if ref == "" {
			in.Reference = nil
		} else {
			in.Reference = &ref
		}
	}
	if in.CompraID != nil && in.Type != entity.MovementTypePURCHASE {
		return domain.Invalid("compraId", "solo aplica a movimientos PURCHASE")
	}
	return nil
}

// RecordMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RecordMovementUseCase) RecordMovementFromRequest(ctx context.Context, materialID, actorID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	res, err := uc.RecordMovement(ctx, MovementInput{
		MaterialID: materialID,
		ActorID:    actorID,
		Type:       entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Type))),
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Reference:  in.Reference,
		CompraID:   in.CompraID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecordMovementResponse{
		Movement: toMovementResponse(res.Movement),
		Material: dto.MaterialStockSnapshot{
			ID:           res.Material.ID,
			StockActual:  res.Material.StockActual,
			StockMinimo:  res.Material.StockMinimo,
			UnidadMedida: res.Material.UnidadMedida,
		},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:          m.ID,
		MaterialID:  m.MaterialID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Reference:   m.Reference,
		CompraID:    m.CompraID,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}
