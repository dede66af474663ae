package inventory

import (
	"context"

	"github.com/alumac/alumac-api/internal/application/dto"
	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
	"github.com/alumac/alumac-api/internal/domain/stock"
)

// LedgerAuditUseCase verifica que el libro de un material sea reproducible y coincida con su stock actual.
type LedgerAuditUseCase struct {
	reader SnapshotReader
}

// NewLedgerAuditUseCase construye el caso de uso.
func NewLedgerAuditUseCase(reader SnapshotReader) *LedgerAuditUseCase {
	return &LedgerAuditUseCase{reader: reader}
}

// Verify reproduce el libro completo (más antiguo primero). Sin movimientos el libro es consistente
// por definición y el stock esperado es el actual (stock inicial). Material y movimientos se leen
// en la misma instantánea: un movimiento confirmado durante la auditoría no la vuelve inconsistente.
func (uc *LedgerAuditUseCase) Verify(ctx context.Context, materialID string) (*dto.LedgerAuditResponse, error) {
	var (
		material  *entity.Material
		movements []*entity.StockMovement
	)
	err := uc.reader.ReadSnapshot(ctx, func(
		materialRepo repository.MaterialRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		material, err = materialRepo.GetByID(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}
		movements, err = movRepo.ListAllByMaterial(ctx, materialID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &dto.LedgerAuditResponse{
		MaterialID:    materialID,
		Movements:     len(movements),
		ActualStock:   material.StockActual,
		ExpectedStock: material.StockActual,
		Consistent:    true,
	}
	if len(movements) == 0 {
		return out, nil
	}

	final, mismatch := stock.Replay(movements)
	out.ExpectedStock = final
	if mismatch != nil {
		id := mismatch.MovementID
		out.FirstMismatchID = &id
		out.Consistent = false
		return out, nil
	}
	out.Consistent = final.Equal(material.StockActual)
	return out, nil
}
