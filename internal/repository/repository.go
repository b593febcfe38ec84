package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
)

// Single-record lookups return (nil, nil) when nothing matches; absence is
// not an error at this layer.

type ValidationRepository interface {
	SaveValidationResult(ctx context.Context, result *domain.ValidationResult) error
	FetchLastValidationResult(ctx context.Context, validationName string) (*domain.ValidationResult, error)
	FetchAllValidationResults(ctx context.Context) ([]domain.ValidationResult, error)
	DeleteValidationResult(ctx context.Context, validationName string) error
}

type NotificationRepository interface {
	SaveLastNotification(ctx context.Context, status *domain.NotificationStatus) error
	FetchLastNotification(ctx context.Context, validationName string) (*domain.NotificationStatus, error)
}

type HistoryRepository interface {
	AppendNotification(ctx context.Context, occurrence *domain.NotificationOccurrence) error
	CountNotifications(ctx context.Context, start, end time.Time, filters Filters) (int64, error)
	FetchNotifications(ctx context.Context, start, end time.Time, filters Filters, page *Page) ([]domain.NotificationOccurrence, error)
}

// Filters narrows history queries. Keys are document field names; values are
// matched by equality or, for the Mongo backend, may hold query operators.
type Filters map[string]any

// Page selects a zero-indexed page of history results.
type Page struct {
	Number int
	Size   int
}

func (p *Page) Validate() error {
	if p == nil {
		return nil
	}
	if p.Number < 0 {
		return fmt.Errorf("%w: page must be >= 0", domain.ErrValidation)
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: page size must be >= 1", domain.ErrValidation)
	}
	return nil
}

// Skip is the number of matching records preceding the page.
func (p *Page) Skip() int64 {
	if p == nil {
		return 0
	}
	return int64(p.Number) * int64(p.Size)
}
