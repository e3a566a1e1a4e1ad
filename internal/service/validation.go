// internal/service/validation.go
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/GuilhermeKulkamp/tasklist/internal/models"
)

// TaskRequest is the caller input for creating or updating a task. Empty
// dates are absent.
type TaskRequest struct {
	Description string
	StartDate   string
	EndDate     string
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	DateLayout string
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		DateLayout: time.DateOnly,
	}
}

// Validator checks task requests before they reach the store.
type Validator struct {
	config *ValidationConfig
}

func NewValidator(config *ValidationConfig) *Validator {
	if config == nil || config.DateLayout == "" {
		config = DefaultValidationConfig()
	}
	return &Validator{
		config: config,
	}
}

// Validate checks req and returns it with its dates normalized to the
// configured layout. The description is checked first, then each date, then
// their ordering.
func (v *Validator) Validate(req TaskRequest) (TaskRequest, error) {
	if strings.TrimSpace(req.Description) == "" {
		return TaskRequest{}, newValidationError(ErrDescriptionRequired, "")
	}

	start, err := v.parseDate("start", req.StartDate)
	if err != nil {
		return TaskRequest{}, err
	}
	end, err := v.parseDate("end", req.EndDate)
	if err != nil {
		return TaskRequest{}, err
	}

	if start != nil && end != nil && !end.After(*start) {
		return TaskRequest{}, newValidationError(ErrEndBeforeStart, "")
	}

	return TaskRequest{
		Description: req.Description,
		StartDate:   v.formatDate(start),
		EndDate:     v.formatDate(end),
	}, nil
}

// parseDate returns nil for an absent date.
func (v *Validator) parseDate(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(v.config.DateLayout, value)
	if err != nil {
		return nil, newValidationError(ErrInvalidDate,
			fmt.Sprintf("invalid %s date %q (expected %s)", name, value, v.config.DateLayout))
	}
	return &t, nil
}

func (v *Validator) formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(v.config.DateLayout)
}

// DeriveStatus computes a task status from its dates. A task with an end
// date but no start date is Pending.
func DeriveStatus(startDate, endDate string) models.TaskStatus {
	switch {
	case startDate == "":
		return models.TaskStatusPending
	case endDate == "":
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusCompleted
	}
}
