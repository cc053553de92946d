package httpapi

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

type NotificationService interface {
	ListAll(ctx context.Context, caller domain.CallerContext) ([]domain.Notification, error)
	ListUnread(ctx context.Context, caller domain.CallerContext) ([]domain.Notification, error)
	MarkViewed(ctx context.Context, caller domain.CallerContext, id uint) (*domain.Notification, error)
}

type NotificationHandler struct {
	svc NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

type notificationListData struct {
	Notifications []domain.Notification `json:"notifications"`
}

func (h *NotificationHandler) ListAllAdmin(c *fiber.Ctx) error {
	notifications, err := h.svc.ListAll(c.Context(), CallerFromCtx(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Notifications retrieved successfully", notificationListData{Notifications: notifications})
}

func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	notifications, err := h.svc.ListUnread(c.Context(), CallerFromCtx(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Unread notifications retrieved successfully", notificationListData{Notifications: notifications})
}

func (h *NotificationHandler) MarkViewed(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return BadRequestResponse(c, "Invalid notification ID", nil)
	}

	notification, err := h.svc.MarkViewed(c.Context(), CallerFromCtx(c), uint(id))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return SuccessResponse(c, "Notification marked as viewed", notification)
}
