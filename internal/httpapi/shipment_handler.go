package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/service"
)

// ShipmentService is what the shipment handlers need from the
// lifecycle engine.
type ShipmentService interface {
	Create(ctx context.Context, caller domain.CallerContext, in service.CreateShipmentInput) (*domain.Shipment, error)
	List(ctx context.Context, caller domain.CallerContext, adminScope bool) ([]domain.Shipment, error)
	Get(ctx context.Context, caller domain.CallerContext, shippingID string, adminScope bool) (*domain.Shipment, error)
	Transition(ctx context.Context, caller domain.CallerContext, shippingID, rawStatus string) (*domain.Shipment, error)
	Cancel(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error)
	ForceCancel(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error)
	ToggleDelay(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error)
}

type ShipmentHandler struct {
	svc ShipmentService
	log *zap.Logger
}

func NewShipmentHandler(svc ShipmentService, log *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{svc: svc, log: log}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type shipmentListData struct {
	ShippingItems []domain.Shipment `json:"shippingItems"`
}

type shipmentData struct {
	ShippingItem *domain.Shipment `json:"shippingItem"`
}

type delayFlagData struct {
	ShippingID string `json:"shippingId"`
	DelayFlag  bool   `json:"delayFlag"`
}

func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in service.CreateShipmentInput
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	shipment, err := h.svc.Create(c.Context(), CallerFromCtx(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return CreatedResponse(c, "Shipment created successfully", shipmentData{ShippingItem: shipment})
}

func (h *ShipmentHandler) ListAdmin(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *ShipmentHandler) ListUser(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ShipmentHandler) list(c *fiber.Ctx, adminScope bool) error {
	shipments, err := h.svc.List(c.Context(), CallerFromCtx(c), adminScope)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Shipments retrieved successfully", shipmentListData{ShippingItems: shipments})
}

func (h *ShipmentHandler) GetAdmin(c *fiber.Ctx) error {
	return h.get(c, true)
}

func (h *ShipmentHandler) GetUser(c *fiber.Ctx) error {
	return h.get(c, false)
}

func (h *ShipmentHandler) get(c *fiber.Ctx, adminScope bool) error {
	shippingID := c.Params("id")
	if shippingID == "" {
		return BadRequestResponse(c, "shippingId parameter is required", nil)
	}

	shipment, err := h.svc.Get(c.Context(), CallerFromCtx(c), shippingID, adminScope)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Shipment retrieved successfully", shipmentData{ShippingItem: shipment})
}

func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	shippingID := c.Params("id")
	if shippingID == "" {
		return BadRequestResponse(c, "Missing shipment ID in URL", nil)
	}

	var in updateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return BadRequestResponse(c, "Invalid request body", nil)
	}
	if in.Status == "" {
		return BadRequestResponse(c, "status is required", nil)
	}

	shipment, err := h.svc.Transition(c.Context(), CallerFromCtx(c), shippingID, in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Shipment status updated successfully", shipmentData{ShippingItem: shipment})
}

func (h *ShipmentHandler) Cancel(c *fiber.Ctx) error {
	shipment, err := h.svc.Cancel(c.Context(), CallerFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Shipment cancellation processed", shipmentData{ShippingItem: shipment})
}

func (h *ShipmentHandler) ForceCancel(c *fiber.Ctx) error {
	shipment, err := h.svc.ForceCancel(c.Context(), CallerFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Shipment cancelled", shipmentData{ShippingItem: shipment})
}

func (h *ShipmentHandler) ToggleDelay(c *fiber.Ctx) error {
	shipment, err := h.svc.ToggleDelay(c.Context(), CallerFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Delay flag updated", delayFlagData{
		ShippingID: shipment.ShippingID,
		DelayFlag:  shipment.DelayFlag,
	})
}
