package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/alumac/alumac-api/internal/application/dto"
	"github.com/alumac/alumac-api/pkg/logger"
)

// MovementRecorder registra movimientos de stock (inventory.RecordMovementUseCase).
type MovementRecorder interface {
	RecordMovementFromRequest(ctx context.Context, materialID, actorID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error)
}

// MovementLister lee el historial (inventory.ListMovementsUseCase).
type MovementLister interface {
	ListMovements(ctx context.Context, materialID string, limit int) (*dto.MovementHistoryResponse, error)
}

// LedgerAuditor verifica el libro (inventory.LedgerAuditUseCase).
type LedgerAuditor interface {
	Verify(ctx context.Context, materialID string) (*dto.LedgerAuditResponse, error)
}

// KardexRenderer genera el kardex en PDF (inventory.KardexPDFUseCase).
type KardexRenderer interface {
	Generate(ctx context.Context, materialID string, limit int) ([]byte, string, error)
}

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	recorder MovementRecorder
	lister   MovementLister
	auditor  LedgerAuditor
	kardex   KardexRenderer
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(recorder MovementRecorder, lister MovementLister, auditor LedgerAuditor, kardex KardexRenderer, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, lister: lister, auditor: auditor, kardex: kardex, log: log.Named("http.inventory")}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  ENTRY/PURCHASE suman, EXIT resta (el stock nunca baja de 0), ADJUSTMENT fija el valor absoluto.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del material"
// @Param        body  body  dto.RecordMovementRequest  true  "type, quantity, reason, reference, compraId"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/materiales/{id}/movimientos [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if err := validateStruct(in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.recorder.RecordMovementFromRequest(c.UserContext(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Más reciente primero, con nombre del usuario y número de compra / proveedor.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del material"
// @Param        limit  query  int     false  "Cantidad máxima (por defecto configurable)"
// @Success      200    {object}  dto.MovementHistoryResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/materiales/{id}/movimientos [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	out, err := h.lister.ListMovements(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AuditLedger godoc
// @Summary      Auditoría del libro de stock
// @Description  Reproduce todos los movimientos y compara el resultado con el stock actual.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200 {object}  dto.LedgerAuditResponse
// @Failure      403 {object}  dto.ErrorResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /api/materiales/{id}/movimientos/auditoria [get]
func (h *InventoryHandler) AuditLedger(c *fiber.Ctx) error {
	out, err := h.auditor.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex del material en PDF
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id     path   string  true   "ID del material"
// @Param        limit  query  int     false  "Cantidad máxima de movimientos"
// @Success      200    {file}    binary
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/materiales/{id}/kardex.pdf [get]
func (h *InventoryHandler) KardexPDF(c *fiber.Ctx) error {
	pdf, codigo, err := h.kardex.Generate(c.UserContext(), c.Params("id"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="kardex-%s.pdf"`, codigo))
	return c.Send(pdf)
}
