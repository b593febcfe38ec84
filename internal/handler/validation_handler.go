package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/domain"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
)

type ValidationHandler struct {
	repo repository.ValidationRepository
}

func NewValidationHandler(repo repository.ValidationRepository) (*ValidationHandler, error) {
	if repo == nil {
		return nil, fmt.Errorf("validation repository is required")
	}
	return &ValidationHandler{repo: repo}, nil
}

func RegisterValidationRoutes(router fiber.Router, repo repository.ValidationRepository) error {
	h, err := NewValidationHandler(repo)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/validations", h.ListValidations)
	v1.Get("/validations/:name", h.GetValidation)
	v1.Put("/validations/:name", h.SaveValidation)
	v1.Delete("/validations/:name", h.DeleteValidation)

	return nil
}

type validationResponse struct {
	ValidationName string         `json:"validationName"`
	Status         string         `json:"status"`
	Details        map[string]any `json:"details"`
	Settings       map[string]any `json:"settings,omitempty"`
	LastExecution  *time.Time     `json:"lastExecution,omitempty"`
}

type saveValidationRequest struct {
	Status        string         `json:"status"`
	Details       map[string]any `json:"details"`
	Settings      map[string]any `json:"settings"`
	LastExecution *time.Time     `json:"lastExecution"`
}

type listValidationsResponse struct {
	Data []validationResponse `json:"data"`
}

func (h *ValidationHandler) ListValidations(c *fiber.Ctx) error {
	results, err := h.repo.FetchAllValidationResults(c.UserContext())
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]validationResponse, 0, len(results))
	for i := range results {
		data = append(data, toValidationResponse(&results[i]))
	}
	return c.Status(fiber.StatusOK).JSON(listValidationsResponse{Data: data})
}

func (h *ValidationHandler) GetValidation(c *fiber.Ctx) error {
	name, err := validationNameParam(c)
	if err != nil {
		return toHTTPError(err)
	}

	result, err := h.repo.FetchLastValidationResult(c.UserContext(), name)
	if err != nil {
		return toHTTPError(err)
	}
	if result == nil {
		return toHTTPError(fmt.Errorf("%w: validation %q", domain.ErrNotFound, name))
	}

	return c.Status(fiber.StatusOK).JSON(toValidationResponse(result))
}

// SaveValidation stores the latest result for the validation named in the
// path, replacing any earlier one.
func (h *ValidationHandler) SaveValidation(c *fiber.Ctx) error {
	name, err := validationNameParam(c)
	if err != nil {
		return toHTTPError(err)
	}

	var req saveValidationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return toHTTPError(fmt.Errorf("%w: status is required", domain.ErrValidation))
	}
	if req.Details == nil {
		req.Details = map[string]any{}
	}

	result := &domain.ValidationResult{
		ValidationName: name,
		Status:         domain.Status(status),
		Details:        req.Details,
		Settings:       req.Settings,
		LastExecution:  req.LastExecution,
	}
	if err := h.repo.SaveValidationResult(c.UserContext(), result); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toValidationResponse(result))
}

func (h *ValidationHandler) DeleteValidation(c *fiber.Ctx) error {
	name, err := validationNameParam(c)
	if err != nil {
		return toHTTPError(err)
	}

	if err := h.repo.DeleteValidationResult(c.UserContext(), name); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func validationNameParam(c *fiber.Ctx) (string, error) {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return "", fmt.Errorf("%w: validation name is required", domain.ErrValidation)
	}
	return name, nil
}

func toValidationResponse(r *domain.ValidationResult) validationResponse {
	return validationResponse{
		ValidationName: r.ValidationName,
		Status:         r.Status.String(),
		Details:        r.Details,
		Settings:       r.Settings,
		LastExecution:  r.LastExecution,
	}
}
