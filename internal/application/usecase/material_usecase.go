package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/application/dto"
	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
	"github.com/alumac/alumac-api/internal/domain/repository"
	"github.com/alumac/alumac-api/internal/domain/stock"
)

// MaterialUseCase casos de uso CRUD para materiales. El stock solo se modifica vía movimientos.
type MaterialUseCase struct {
	repo repository.MaterialRepository
	now  func() time.Time
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, now: time.Now}
}

// Create crea un material. El stock inicial no genera movimiento en el libro.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	in.Codigo = strings.TrimSpace(in.Codigo)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.UnidadMedida = strings.TrimSpace(in.UnidadMedida)
	if in.Codigo == "" {
		return nil, domain.Invalid("codigo", "requerido")
	}
	if in.Nombre == "" {
		return nil, domain.Invalid("nombre", "requerido")
	}
	if in.UnidadMedida == "" {
		return nil, domain.Invalid("unidadMedida", "requerido")
	}
	if err := checkQuantity("stockInicial", in.StockInicial); err != nil {
		return nil, err
	}
	if err := checkQuantity("stockMinimo", in.StockMinimo); err != nil {
		return nil, err
	}
	if err := checkPrice("precioUnitario", in.PrecioUnitario); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByCodigo(ctx, in.Codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	material := &entity.Material{
		ID:             uuid.New().String(),
		Codigo:         in.Codigo,
		Nombre:         in.Nombre,
		Descripcion:    strings.TrimSpace(in.Descripcion),
		UnidadMedida:   in.UnidadMedida,
		StockActual:    in.StockInicial,
		StockMinimo:    in.StockMinimo,
		PrecioUnitario: in.PrecioUnitario,
		ProveedorID:    in.ProveedorID,
		Activo:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByID obtiene un material por ID (activo o no).
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return toMaterialResponse(material), nil
}

// List lista materiales con paginación.
func (uc *MaterialUseCase) List(ctx context.Context, filter repository.MaterialFilter) (*dto.MaterialListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// Update actualiza solo los campos descriptivos presentes. Nunca toca stock_actual.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	upd := repository.MaterialDescriptiveUpdate{
		Descripcion:    in.Descripcion,
		StockMinimo:    in.StockMinimo,
		PrecioUnitario: in.PrecioUnitario,
		ProveedorID:    in.ProveedorID,
	}
	if in.Nombre != nil {
		v := strings.TrimSpace(*in.Nombre)
		if v == "" {
			return nil, domain.Invalid("nombre", "no puede estar vacío")
		}
		upd.Nombre = &v
	}
	if in.UnidadMedida != nil {
		v := strings.TrimSpace(*in.UnidadMedida)
		if v == "" {
			return nil, domain.Invalid("unidadMedida", "no puede estar vacía")
		}
		upd.UnidadMedida = &v
	}
	if in.StockMinimo != nil {
		if err := checkQuantity("stockMinimo", *in.StockMinimo); err != nil {
			return nil, err
		}
	}
	if in.PrecioUnitario != nil {
		if err := checkPrice("precioUnitario", *in.PrecioUnitario); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateDescriptive(ctx, id, upd); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Deactivate baja lógica. Los movimientos del material se conservan.
func (uc *MaterialUseCase) Deactivate(ctx context.Context, id string) error {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if material == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, id)
}

// ListLowStock materiales activos con stock por debajo del mínimo.
func (uc *MaterialUseCase) ListLowStock(ctx context.Context) ([]dto.MaterialResponse, error) {
	list, err := uc.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return items, nil
}

func checkQuantity(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	if err := stock.CheckQuantity(v); err != nil {
		return domain.Invalid(field, err.Error())
	}
	return nil
}

func checkPrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	if err := stock.CheckPrice(v); err != nil {
		return domain.Invalid(field, err.Error())
	}
	return nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:             m.ID,
		Codigo:         m.Codigo,
		Nombre:         m.Nombre,
		Descripcion:    m.Descripcion,
		UnidadMedida:   m.UnidadMedida,
		StockActual:    m.StockActual,
		StockMinimo:    m.StockMinimo,
		PrecioUnitario: m.PrecioUnitario,
		ProveedorID:    m.ProveedorID,
		Activo:         m.Activo,
		BajoStock:      m.BelowMinimum(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
