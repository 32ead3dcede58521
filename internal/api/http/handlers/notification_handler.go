package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/service"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// NotificationHandler serves the notification feed and detail endpoints.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	feed, err := h.notifications.List(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(feed)
}

// MarkRead flips one notification to read and returns its resolved detail.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	detail, err := h.notifications.MarkReadAndFetchDetail(c.Context(), c.Params("id"), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}
