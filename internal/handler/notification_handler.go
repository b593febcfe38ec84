package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
}

func NewNotificationHandler(repo repository.NotificationRepository) (*NotificationHandler, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &NotificationHandler{repo: repo}, nil
}

func RegisterNotificationRoutes(router fiber.Router, repo repository.NotificationRepository) error {
	h, err := NewNotificationHandler(repo)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/notifications/:name", h.GetLastNotification)
	v1.Put("/notifications/:name", h.SaveLastNotification)
	return nil
}

type notificationResponse struct {
	ValidationName   string         `json:"validationName"`
	ThreadIDs        any            `json:"threadIds"`
	IsOpened         bool           `json:"isOpened"`
	Options          map[string]any `json:"options"`
	LastNotification time.Time      `json:"lastNotification"`
}

type saveNotificationRequest struct {
	ThreadIDs        any            `json:"threadIds"`
	IsOpened         *bool          `json:"isOpened"`
	Options          map[string]any `json:"options"`
	LastNotification *time.Time     `json:"lastNotification"`
}

// GetLastNotification returns the open notification thread for a
// validation, or 404 when none is open.
func (h *NotificationHandler) GetLastNotification(c *fiber.Ctx) error {
	name, err := validationNameParam(c)
	if err != nil {
		return toHTTPError(err)
	}

	status, err := h.repo.FetchLastNotification(c.UserContext(), name)
	if err != nil {
		return toHTTPError(err)
	}
	if status == nil {
		return toHTTPError(fmt.Errorf("%w: no open notification for %q", domain.ErrNotFound, name))
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(status))
}

// SaveLastNotification opens, refreshes or closes the notification thread of
// a validation. Threads are opened unless isOpened is false.
func (h *NotificationHandler) SaveLastNotification(c *fiber.Ctx) error {
	name, err := validationNameParam(c)
	if err != nil {
		return toHTTPError(err)
	}

	var req saveNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Options == nil {
		req.Options = map[string]any{}
	}

	status := domain.NewNotificationStatus(name, req.ThreadIDs, req.Options)
	if req.IsOpened != nil && !*req.IsOpened {
		status.Close()
	}
	if req.LastNotification != nil {
		status.LastNotification = req.LastNotification.UTC()
	}

	if err := h.repo.SaveLastNotification(c.UserContext(), status); err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(status))
}

func toNotificationResponse(status *domain.NotificationStatus) notificationResponse {
	return notificationResponse{
		ValidationName:   status.ValidationName,
		ThreadIDs:        status.ThreadIDs,
		IsOpened:         status.IsOpened,
		Options:          status.Options,
		LastNotification: status.LastNotification,
	}
}
