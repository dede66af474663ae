package inventory

import (
	"context"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

// KardexPDFUseCase genera el kardex (ficha de movimientos) de un material en PDF.
type KardexPDFUseCase struct {
	materialRepo repository.MaterialRepository
	movRepo      repository.StockMovementRepository
	generator    KardexPDFGenerator
	maxRows      int
}

// NewKardexPDFUseCase construye el caso de uso.
func NewKardexPDFUseCase(
	materialRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
	generator KardexPDFGenerator,
	maxRows int,
) *KardexPDFUseCase {
	return &KardexPDFUseCase{materialRepo: materialRepo, movRepo: movRepo, generator: generator, maxRows: maxRows}
}

// Generate devuelve el PDF y el código del material (para el nombre del archivo).
func (uc *KardexPDFUseCase) Generate(ctx context.Context, materialID string, limit int) ([]byte, string, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, "", err
	}
	if material == nil {
		return nil, "", domain.ErrNotFound
	}
	if limit <= 0 || limit > uc.maxRows {
		limit = uc.maxRows
	}
	movements, err := uc.movRepo.ListByMaterial(ctx, materialID, limit)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateKardexPDF(ctx, material, movements)
	if err != nil {
		return nil, "", err
	}
	return pdf, material.Codigo, nil
}
