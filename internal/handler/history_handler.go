package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
)

const (
	defaultPageSize      = 50
	maxPageSize          = 100
	defaultHistoryWindow = 24 * time.Hour
)

type HistoryHandler struct {
	repo repository.HistoryRepository
	now  func() time.Time
}

func NewHistoryHandler(repo repository.HistoryRepository) (*HistoryHandler, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	return &HistoryHandler{repo: repo, now: time.Now}, nil
}

func RegisterHistoryRoutes(router fiber.Router, repo repository.HistoryRepository) error {
	h, err := NewHistoryHandler(repo)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/history", h.ListHistory)
	v1.Post("/history", h.AppendHistory)
	return nil
}

type historyQuery struct {
	Start   time.Time
	End     time.Time
	Filters repository.Filters
	Page    *repository.Page
}

type historyResponse struct {
	ValidationName   string         `json:"validationName"`
	Details          map[string]any `json:"details"`
	Status           string         `json:"status"`
	NotificationType string         `json:"notificationType"`
	CreatedAt        time.Time      `json:"createdAt"`
}

type appendHistoryRequest struct {
	ValidationName   string         `json:"validationName"`
	Details          map[string]any `json:"details"`
	Status           string         `json:"status"`
	NotificationType string         `json:"notificationType"`
	CreatedAt        *time.Time     `json:"createdAt"`
}

type listHistoryResponse struct {
	Data []historyResponse `json:"data"`
	Meta listMeta          `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	query, err := h.parseHistoryQuery(c)
	if err != nil {
		return toHTTPError(err)
	}

	total, err := h.repo.CountNotifications(c.UserContext(), query.Start, query.End, query.Filters)
	if err != nil {
		return toHTTPError(err)
	}
	occurrences, err := h.repo.FetchNotifications(c.UserContext(), query.Start, query.End, query.Filters, query.Page)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]historyResponse, 0, len(occurrences))
	for i := range occurrences {
		data = append(data, toHistoryResponse(&occurrences[i]))
	}

	meta := listMeta{PageSize: len(data), Total: total}
	if query.Page != nil {
		meta.Page = query.Page.Number
		meta.PageSize = query.Page.Size
	}

	return c.Status(fiber.StatusOK).JSON(listHistoryResponse{Data: data, Meta: meta})
}

// AppendHistory records one sent notification. createdAt defaults to now.
func (h *HistoryHandler) AppendHistory(c *fiber.Ctx) error {
	var req appendHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.NotificationType) == "" {
		return toHTTPError(fmt.Errorf("%w: notificationType is required", domain.ErrValidation))
	}
	if req.Details == nil {
		req.Details = map[string]any{}
	}

	occurrence := domain.NewNotificationOccurrence(
		strings.TrimSpace(req.ValidationName),
		req.Details,
		domain.Status(strings.TrimSpace(req.Status)),
		strings.TrimSpace(req.NotificationType),
	)
	occurrence.CreatedAt = h.now().UTC()
	if req.CreatedAt != nil {
		occurrence.CreatedAt = req.CreatedAt.UTC()
	}

	if err := h.repo.AppendNotification(c.UserContext(), occurrence); err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toHistoryResponse(occurrence))
}

func toHistoryResponse(o *domain.NotificationOccurrence) historyResponse {
	return historyResponse{
		ValidationName:   o.ValidationName,
		Details:          o.Details,
		Status:           o.Status.String(),
		NotificationType: o.NotificationType,
		CreatedAt:        o.CreatedAt,
	}
}

func (h *HistoryHandler) parseHistoryQuery(c *fiber.Ctx) (historyQuery, error) {
	end := h.now().UTC()
	start := end.Add(-defaultHistoryWindow)

	from, err := parseRFC3339Query(c.Query("from"), "from")
	if err != nil {
		return historyQuery{}, err
	}
	to, err := parseRFC3339Query(c.Query("to"), "to")
	if err != nil {
		return historyQuery{}, err
	}
	if to != nil {
		end = *to
		if from == nil {
			start = end.Add(-defaultHistoryWindow)
		}
	}
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return historyQuery{}, fmt.Errorf("%w: from must not be after to", domain.ErrValidation)
	}

	query := historyQuery{Start: start, End: end, Filters: repository.Filters{}}

	if name := strings.TrimSpace(c.Query("validation_name")); name != "" {
		query.Filters["validation_name"] = name
	}
	if notificationType := strings.TrimSpace(c.Query("notification_type")); notificationType != "" {
		query.Filters["notification_type"] = notificationType
	}
	// Statuses are stored verbatim, so the filter is too.
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query.Filters["status"] = status
	}

	if strings.TrimSpace(c.Query("page")) != "" {
		page := &repository.Page{
			Number: c.QueryInt("page", -1),
			Size:   c.QueryInt("pageSize", defaultPageSize),
		}
		if page.Number < 0 {
			return historyQuery{}, fmt.Errorf("%w: page must be >= 0", domain.ErrValidation)
		}
		if page.Size < 1 || page.Size > maxPageSize {
			return historyQuery{}, fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize)
		}
		query.Page = page
	}

	return query, nil
}

func parseRFC3339Query(value string, field string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC3339", domain.ErrValidation, field)
	}
	return &t, nil
}
