package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValidationResult is the latest known outcome of a named validation check.
// There is exactly one live result per ValidationName.
type ValidationResult struct {
	ValidationName string
	Status         Status
	Details        map[string]any
	Settings       map[string]any
	LastExecution  *time.Time
}

func (r *ValidationResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: validation result is required", ErrValidation)
	}
	if strings.TrimSpace(r.ValidationName) == "" {
		return fmt.Errorf("%w: validation name is required", ErrValidation)
	}
	return nil
}
