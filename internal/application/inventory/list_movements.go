package inventory

import (
	"context"
	"strings"

	"github.com/alumac/alumac-api/internal/application/dto"
	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
)

// ListMovementsUseCase lee el historial de movimientos de un material. Sin efectos secundarios ni caché.
type ListMovementsUseCase struct {
	materialRepo repository.MaterialRepository
	movRepo      repository.StockMovementRepository
	defaultLimit int
	maxLimit     int
}

// NewListMovementsUseCase construye el caso de uso. limit <= 0 usa defaultLimit; limit > maxLimit se recorta.
func NewListMovementsUseCase(
	materialRepo repository.MaterialRepository,
	movRepo repository.StockMovementRepository,
	defaultLimit, maxLimit int,
) *ListMovementsUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &ListMovementsUseCase{
		materialRepo: materialRepo,
		movRepo:      movRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ListMovements devuelve los últimos movimientos del material, más reciente primero.
// Los materiales desactivados conservan su historial y siguen siendo consultables.
func (uc *ListMovementsUseCase) ListMovements(ctx context.Context, materialID string, limit int) (*dto.MovementHistoryResponse, error) {
	materialID = strings.TrimSpace(materialID)
	if materialID == "" {
		return nil, domain.Invalid("materialId", "requerido")
	}
	limit = uc.normalizeLimit(limit)

	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}

	list, err := uc.movRepo.ListByMaterial(ctx, materialID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementHistoryItem, 0, len(list))
	for _, m := range list {
		items = append(items, toHistoryItem(m))
	}
	return &dto.MovementHistoryResponse{MaterialID: materialID, Limit: limit, Items: items}, nil
}

func (uc *ListMovementsUseCase) normalizeLimit(limit int) int {
	if limit <= 0 {
		return uc.defaultLimit
	}
	if limit > uc.maxLimit {
		return uc.maxLimit
	}
	return limit
}

func toHistoryItem(m *entity.StockMovementDetail) dto.MovementHistoryItem {
	return dto.MovementHistoryItem{
		StockMovementResponse: toMovementResponse(&m.StockMovement),
		UserName:              m.UserName,
		CompraNumero:          m.CompraNumero,
		ProveedorNombre:       m.ProveedorNombre,
	}
}
