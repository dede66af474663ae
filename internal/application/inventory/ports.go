package inventory

import (
	"context"

	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda visible.
// Los conflictos de bloqueo (deadlock, serialización, lock timeout) se devuelven envolviendo
// domain.ErrConcurrencyConflict para que el caso de uso pueda reintentar.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// SnapshotReader ejecuta lecturas sobre una única instantánea consistente de la base, de modo que
// el material y sus movimientos se vean en el mismo punto del tiempo.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// EventSink recibe eventos fuera de banda después del commit. No debe bloquear.
type EventSink interface {
	Enqueue(evt Event)
}

// KardexPDFGenerator genera la representación PDF del historial de un material.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, material *entity.Material, movements []*entity.StockMovementDetail) ([]byte, error)
}
