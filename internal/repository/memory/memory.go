// Package memory implements the repository contracts on process memory. It
// backs tests and deployments that run without a document store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
)

var (
	_ repository.ValidationRepository   = (*ValidationRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.HistoryRepository      = (*HistoryRepo)(nil)
)

type ValidationRepo struct {
	mu      sync.RWMutex
	order   []string
	results map[string]domain.ValidationResult
}

func NewValidationRepo() *ValidationRepo {
	return &ValidationRepo{results: make(map[string]domain.ValidationResult)}
}

func (r *ValidationRepo) SaveValidationResult(_ context.Context, result *domain.ValidationResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[result.ValidationName]; !ok {
		r.order = append(r.order, result.ValidationName)
	}
	r.results[result.ValidationName] = *result
	return nil
}

func (r *ValidationRepo) FetchLastValidationResult(_ context.Context, validationName string) (*domain.ValidationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[validationName]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// FetchAllValidationResults returns results in first-insert order.
func (r *ValidationRepo) FetchAllValidationResults(_ context.Context) ([]domain.ValidationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.ValidationResult, 0, len(r.order))
	for _, name := range r.order {
		results = append(results, r.results[name])
	}
	return results, nil
}

func (r *ValidationRepo) DeleteValidationResult(_ context.Context, validationName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[validationName]; !ok {
		return nil
	}
	delete(r.results, validationName)
	for i, name := range r.order {
		if name == validationName {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count reports the number of stored results.
func (r *ValidationRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

type NotificationRepo struct {
	mu       sync.RWMutex
	statuses map[string]domain.NotificationStatus
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{statuses: make(map[string]domain.NotificationStatus)}
}

func (r *NotificationRepo) SaveLastNotification(_ context.Context, status *domain.NotificationStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[status.ValidationName] = *status
	return nil
}

// FetchLastNotification only returns threads that are still open.
func (r *NotificationRepo) FetchLastNotification(_ context.Context, validationName string) (*domain.NotificationStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[validationName]
	if !ok || !status.IsOpened {
		return nil, nil
	}
	return &status, nil
}

type HistoryRepo struct {
	mu          sync.RWMutex
	occurrences []domain.NotificationOccurrence
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{}
}

func (r *HistoryRepo) AppendNotification(_ context.Context, occurrence *domain.NotificationOccurrence) error {
	if err := occurrence.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.occurrences = append(r.occurrences, *occurrence)
	return nil
}

func (r *HistoryRepo) CountNotifications(_ context.Context, start, end time.Time, filters repository.Filters) (int64, error) {
	matched, err := r.match(start, end, filters)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *HistoryRepo) FetchNotifications(_ context.Context, start, end time.Time, filters repository.Filters, page *repository.Page) ([]domain.NotificationOccurrence, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	matched, err := r.match(start, end, filters)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if page == nil {
		return matched, nil
	}

	skip := page.Skip()
	if skip >= int64(len(matched)) {
		return []domain.NotificationOccurrence{}, nil
	}
	endIdx := min(skip+int64(page.Size), int64(len(matched)))
	return matched[skip:endIdx], nil
}

// Len reports the number of appended occurrences.
func (r *HistoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.occurrences)
}

func (r *HistoryRepo) match(start, end time.Time, filters repository.Filters) ([]domain.NotificationOccurrence, error) {
	for key := range filters {
		switch key {
		case "validation_name", "status", "notification_type", "created_at":
		default:
			return nil, fmt.Errorf("%w: unsupported history filter %q", domain.ErrValidation, key)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.NotificationOccurrence, 0, len(r.occurrences))
	for _, o := range r.occurrences {
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		if !matchesField(filters, "validation_name", o.ValidationName) ||
			!matchesField(filters, "status", o.Status.String()) ||
			!matchesField(filters, "notification_type", o.NotificationType) {
			continue
		}
		matched = append(matched, o)
	}
	return matched, nil
}

func matchesField(filters repository.Filters, key string, value string) bool {
	want, ok := filters[key]
	if !ok {
		return true
	}
	switch w := want.(type) {
	case string:
		return w == value
	case fmt.Stringer:
		return w.String() == value
	default:
		return false
	}
}
