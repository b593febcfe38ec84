package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationStatus tracks the outbound notification thread opened for a
// validation check while its problem remains unresolved.
type NotificationStatus struct {
	ValidationName string
	// ThreadIDs is opaque; its shape depends on the notification channel.
	ThreadIDs        any
	IsOpened         bool
	Options          map[string]any
	LastNotification time.Time
}

// NewNotificationStatus opens a new thread stamped with the current time.
func NewNotificationStatus(validationName string, threadIDs any, options map[string]any) *NotificationStatus {
	return &NotificationStatus{
		ValidationName:   validationName,
		ThreadIDs:        threadIDs,
		IsOpened:         true,
		Options:          options,
		LastNotification: time.Now().UTC(),
	}
}

// Close marks the thread as resolved.
func (n *NotificationStatus) Close() {
	n.IsOpened = false
	n.LastNotification = time.Now().UTC()
}

func (n *NotificationStatus) Validate() error {
	if n == nil {
		return fmt.Errorf("%w: notification status is required", ErrValidation)
	}
	if strings.TrimSpace(n.ValidationName) == "" {
		return fmt.Errorf("%w: validation name is required", ErrValidation)
	}
	return nil
}
