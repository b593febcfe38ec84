package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationOccurrence is an immutable record of one notification send.
type NotificationOccurrence struct {
	ValidationName   string
	Details          map[string]any
	Status           Status
	NotificationType string
	CreatedAt        time.Time
}

func NewNotificationOccurrence(validationName string, details map[string]any, status Status, notificationType string) *NotificationOccurrence {
	return &NotificationOccurrence{
		ValidationName:   validationName,
		Details:          details,
		Status:           status,
		NotificationType: notificationType,
		CreatedAt:        time.Now().UTC(),
	}
}

func (o *NotificationOccurrence) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: notification occurrence is required", ErrValidation)
	}
	if strings.TrimSpace(o.ValidationName) == "" {
		return fmt.Errorf("%w: validation name is required", ErrValidation)
	}
	return nil
}
