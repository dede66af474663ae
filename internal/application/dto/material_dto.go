package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Codigo         string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre         string          `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion    string          `json:"descripcion" validate:"max=1000"`
	UnidadMedida   string          `json:"unidadMedida" validate:"required,max=20"`
	StockInicial   decimal.Decimal `json:"stockInicial"`
	StockMinimo    decimal.Decimal `json:"stockMinimo"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	ProveedorID    *string         `json:"proveedorId,omitempty" validate:"omitempty,uuid"`
}

// UpdateMaterialRequest campos descriptivos a modificar (sin stock).
type UpdateMaterialRequest struct {
	Nombre         *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion    *string          `json:"descripcion" validate:"omitempty,max=1000"`
	UnidadMedida   *string          `json:"unidadMedida" validate:"omitempty,min=1,max=20"`
	StockMinimo    *decimal.Decimal `json:"stockMinimo"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario"`
	ProveedorID    *string          `json:"proveedorId" validate:"omitempty,uuid"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID             string          `json:"id"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Descripcion    string          `json:"descripcion"`
	UnidadMedida   string          `json:"unidadMedida"`
	StockActual    decimal.Decimal `json:"stockActual"`
	StockMinimo    decimal.Decimal `json:"stockMinimo"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	ProveedorID    *string         `json:"proveedorId,omitempty"`
	Activo         bool            `json:"activo"`
	BajoStock      bool            `json:"bajoStock"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
