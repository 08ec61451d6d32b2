package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/application/gacha"
)

// GachaHandler maneja las peticiones HTTP del ledger de ítems gacha (protegido).
type GachaHandler struct {
	ledger *gacha.LedgerUseCase
	report *gacha.ReportUseCase
}

// NewGachaHandler construye el handler.
func NewGachaHandler(ledger *gacha.LedgerUseCase, report *gacha.ReportUseCase) *GachaHandler {
	return &GachaHandler{ledger: ledger, report: report}
}

// Create godoc
// @Summary      Crear ítem gacha con asignaciones iniciales
// @Tags         gacha
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGachaItemRequest  true  "name, image, total_stock, allocations"
// @Success      201   {object}  dto.GachaItemResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/gacha [post]
func (h *GachaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGachaItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	if in.TotalStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "total_stock no puede ser negativo"})
	}
	out, err := h.ledger.Create(c.UserContext(), in, GetCapability(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         gacha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.GachaItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/gacha/{id} [get]
func (h *GachaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.ledger.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems (más reciente primero)
// @Tags         gacha
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GachaItemListResponse
// @Router       /api/gacha [get]
func (h *GachaHandler) List(c *fiber.Ctx) error {
	out, err := h.ledger.List()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// SetAllocation godoc
// @Summary      Fijar la asignación de una sucursal para un ítem
// @Description  Admin puede cualquier sucursal; un operador solo la suya. La suma se revalida al confirmar.
// @Tags         gacha
// @Security     Bearer
// @Accept       json
// @Param        id        path  string  true  "ID del ítem"
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Param        body      body  dto.SetAllocationRequest  true  "quantity"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/gacha/{id}/allocations/{branchId} [put]
func (h *GachaHandler) SetAllocation(c *fiber.Ctx) error {
	id := c.Params("id")
	branchID := c.Params("branchId")
	var in dto.SetAllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity no puede ser negativo"})
	}
	if err := h.ledger.SetAllocation(c.UserContext(), id, branchID, in.Quantity, GetCapability(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetTotalStock godoc
// @Summary      Fijar el stock total de un ítem (solo admin)
// @Description  Rechaza con BELOW_ALLOCATED_FLOOR un total menor que la suma ya asignada.
// @Tags         gacha
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.SetTotalStockRequest  true  "total_stock"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/gacha/{id}/total-stock [put]
func (h *GachaHandler) SetTotalStock(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.SetTotalStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TotalStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "total_stock no puede ser negativo"})
	}
	if err := h.ledger.SetTotalStock(c.UserContext(), id, in.TotalStock, GetCapability(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar ítem (solo admin, incondicional)
// @Tags         gacha
// @Security     Bearer
// @Param        id  path  string  true  "ID del ítem"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/gacha/{id} [delete]
func (h *GachaHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ledger.Delete(c.UserContext(), id, GetCapability(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte PDF de asignaciones (solo admin)
// @Tags         gacha
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/gacha/report [get]
func (h *GachaHandler) Report(c *fiber.Ctx) error {
	pdfBytes, err := h.report.GenerateAllocationReport(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="allocation-report.pdf"`)
	return c.Send(pdfBytes)
}
