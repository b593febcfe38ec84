package repository

import (
	"time"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
)

const (
	validationsCollection   = "validations"
	notificationsCollection = "notifications"
	historyCollection       = "history"

	fieldValidationName   = "validation_name"
	fieldIsOpened         = "is_opened"
	fieldLastNotification = "last_notification"
	fieldCreatedAt        = "created_at"
)

// ValidationDocument is the persisted shape of the validations collection.
type ValidationDocument struct {
	ValidationName string         `bson:"validation_name"`
	Status         domain.Status  `bson:"status"`
	Details        map[string]any `bson:"details"`
	Settings       map[string]any `bson:"settings"`
	LastExecution  *time.Time     `bson:"last_execution"`
}

// NotificationDocument is the persisted shape of the notifications collection.
type NotificationDocument struct {
	ValidationName   string         `bson:"validation_name"`
	ThreadIDs        any            `bson:"thread_ids"`
	IsOpened         bool           `bson:"is_opened"`
	Options          map[string]any `bson:"options"`
	LastNotification time.Time      `bson:"last_notification"`
}

// HistoryDocument is the persisted shape of the history collection.
type HistoryDocument struct {
	ValidationName   string         `bson:"validation_name"`
	Details          map[string]any `bson:"details"`
	Status           domain.Status  `bson:"status"`
	NotificationType string         `bson:"notification_type"`
	CreatedAt        time.Time      `bson:"created_at"`
}

func validationDocumentFromDomain(r *domain.ValidationResult) *ValidationDocument {
	if r == nil {
		return nil
	}

	return &ValidationDocument{
		ValidationName: r.ValidationName,
		Status:         r.Status,
		Details:        r.Details,
		Settings:       r.Settings,
		LastExecution:  storedTimePtr(r.LastExecution),
	}
}

func validationDocumentToDomain(d *ValidationDocument) *domain.ValidationResult {
	if d == nil {
		return nil
	}

	return &domain.ValidationResult{
		ValidationName: d.ValidationName,
		Status:         d.Status,
		Details:        normalizeMap(d.Details),
		Settings:       normalizeMap(d.Settings),
		LastExecution:  storedTimePtr(d.LastExecution),
	}
}

func notificationDocumentFromDomain(n *domain.NotificationStatus) *NotificationDocument {
	if n == nil {
		return nil
	}

	return &NotificationDocument{
		ValidationName:   n.ValidationName,
		ThreadIDs:        n.ThreadIDs,
		IsOpened:         n.IsOpened,
		Options:          n.Options,
		LastNotification: storedTime(n.LastNotification),
	}
}

// notificationDocumentToDomain rebuilds the status through its constructor,
// then restores the state the constructor would otherwise reset.
func notificationDocumentToDomain(validationName string, d *NotificationDocument) *domain.NotificationStatus {
	if d == nil {
		return nil
	}

	status := domain.NewNotificationStatus(validationName, normalizeValue(d.ThreadIDs), normalizeMap(d.Options))
	status.IsOpened = d.IsOpened
	status.LastNotification = storedTime(d.LastNotification)
	return status
}

func historyDocumentFromDomain(o *domain.NotificationOccurrence) *HistoryDocument {
	if o == nil {
		return nil
	}

	return &HistoryDocument{
		ValidationName:   o.ValidationName,
		Details:          o.Details,
		Status:           o.Status,
		NotificationType: o.NotificationType,
		CreatedAt:        storedTime(o.CreatedAt),
	}
}

func historyDocumentToDomain(d *HistoryDocument) *domain.NotificationOccurrence {
	if d == nil {
		return nil
	}

	return &domain.NotificationOccurrence{
		ValidationName:   d.ValidationName,
		Details:          normalizeMap(d.Details),
		Status:           d.Status,
		NotificationType: d.NotificationType,
		CreatedAt:        storedTime(d.CreatedAt),
	}
}
