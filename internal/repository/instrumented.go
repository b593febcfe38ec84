package repository

import (
	"context"
	"time"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/observability"
	"go.uber.org/zap"
)

const (
	repoValidation   = "validation"
	repoNotification = "notification"
	repoHistory      = "history"
)

// instrumentation records the outcome of each repository call. Errors are
// returned to the caller unchanged.
type instrumentation struct {
	repository string
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func newInstrumentation(repository string, metrics *observability.Metrics, logger *zap.Logger) instrumentation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return instrumentation{
		repository: repository,
		metrics:    metrics,
		logger:     logger.With(zap.String("repository", repository)),
	}
}

func (i instrumentation) observe(ctx context.Context, operation string, validationName string, start time.Time, err error) {
	elapsed := time.Since(start)
	i.metrics.ObserveRepositoryOperation(i.repository, operation, err, elapsed)

	logger := observability.WithContextLogger(i.logger, ctx)
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("elapsed", elapsed),
	}
	if validationName != "" {
		fields = append(fields, zap.String("validationName", validationName))
	}

	if err != nil {
		logger.Error("repository operation failed", append(fields, zap.Error(err))...)
		return
	}
	logger.Debug("repository operation completed", fields...)
}

type InstrumentedValidationRepo struct {
	next ValidationRepository
	inst instrumentation
}

var _ ValidationRepository = (*InstrumentedValidationRepo)(nil)

func NewInstrumentedValidationRepo(next ValidationRepository, metrics *observability.Metrics, logger *zap.Logger) *InstrumentedValidationRepo {
	return &InstrumentedValidationRepo{next: next, inst: newInstrumentation(repoValidation, metrics, logger)}
}

func (r *InstrumentedValidationRepo) SaveValidationResult(ctx context.Context, result *domain.ValidationResult) error {
	start := time.Now()
	err := r.next.SaveValidationResult(ctx, result)

	name := ""
	if result != nil {
		name = result.ValidationName
	}
	r.inst.observe(ctx, "save", name, start, err)
	return err
}

func (r *InstrumentedValidationRepo) FetchLastValidationResult(ctx context.Context, validationName string) (*domain.ValidationResult, error) {
	start := time.Now()
	result, err := r.next.FetchLastValidationResult(ctx, validationName)
	r.inst.observe(ctx, "fetch_last", validationName, start, err)
	return result, err
}

func (r *InstrumentedValidationRepo) FetchAllValidationResults(ctx context.Context) ([]domain.ValidationResult, error) {
	start := time.Now()
	results, err := r.next.FetchAllValidationResults(ctx)
	r.inst.observe(ctx, "fetch_all", "", start, err)
	return results, err
}

func (r *InstrumentedValidationRepo) DeleteValidationResult(ctx context.Context, validationName string) error {
	start := time.Now()
	err := r.next.DeleteValidationResult(ctx, validationName)
	r.inst.observe(ctx, "delete", validationName, start, err)
	return err
}

type InstrumentedNotificationRepo struct {
	next NotificationRepository
	inst instrumentation
}

var _ NotificationRepository = (*InstrumentedNotificationRepo)(nil)

func NewInstrumentedNotificationRepo(next NotificationRepository, metrics *observability.Metrics, logger *zap.Logger) *InstrumentedNotificationRepo {
	return &InstrumentedNotificationRepo{next: next, inst: newInstrumentation(repoNotification, metrics, logger)}
}

func (r *InstrumentedNotificationRepo) SaveLastNotification(ctx context.Context, status *domain.NotificationStatus) error {
	start := time.Now()
	err := r.next.SaveLastNotification(ctx, status)

	name := ""
	if status != nil {
		name = status.ValidationName
	}
	r.inst.observe(ctx, "save", name, start, err)
	return err
}

func (r *InstrumentedNotificationRepo) FetchLastNotification(ctx context.Context, validationName string) (*domain.NotificationStatus, error) {
	start := time.Now()
	status, err := r.next.FetchLastNotification(ctx, validationName)
	r.inst.observe(ctx, "fetch_last", validationName, start, err)
	return status, err
}

type InstrumentedHistoryRepo struct {
	next HistoryRepository
	inst instrumentation
}

var _ HistoryRepository = (*InstrumentedHistoryRepo)(nil)

func NewInstrumentedHistoryRepo(next HistoryRepository, metrics *observability.Metrics, logger *zap.Logger) *InstrumentedHistoryRepo {
	return &InstrumentedHistoryRepo{next: next, inst: newInstrumentation(repoHistory, metrics, logger)}
}

func (r *InstrumentedHistoryRepo) AppendNotification(ctx context.Context, occurrence *domain.NotificationOccurrence) error {
	start := time.Now()
	err := r.next.AppendNotification(ctx, occurrence)

	name := ""
	if occurrence != nil {
		name = occurrence.ValidationName
		if err == nil {
			r.inst.metrics.IncHistoryAppended(occurrence.NotificationType)
		}
	}
	r.inst.observe(ctx, "append", name, start, err)
	return err
}

func (r *InstrumentedHistoryRepo) CountNotifications(ctx context.Context, start, end time.Time, filters Filters) (int64, error) {
	began := time.Now()
	count, err := r.next.CountNotifications(ctx, start, end, filters)
	r.inst.observe(ctx, "count", "", began, err)
	return count, err
}

func (r *InstrumentedHistoryRepo) FetchNotifications(ctx context.Context, start, end time.Time, filters Filters, page *Page) ([]domain.NotificationOccurrence, error) {
	began := time.Now()
	occurrences, err := r.next.FetchNotifications(ctx, start, end, filters, page)
	r.inst.observe(ctx, "fetch", "", began, err)
	return occurrences, err
}
