package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)

	// Table errors
	ErrEmptyOrMalformedTable = errors.New("dataset is empty or malformed")
	ErrColumnNotFound        = errors.New("column not found")

	// Label errors
	ErrLabelNotFound = errors.New("no eligible label column")
	ErrInvalidLabel  = errors.New("label value is not binary-compatible")

	// Preparation errors
	ErrNoAlgorithmSelected  = errors.New("no algorithm selected")
	ErrUnknownAlgorithm     = errors.New("unknown algorithm")
	ErrInvalidFraction      = errors.New("fraction must be between 0 and 1")
	ErrBalanceLimitExceeded = errors.New("balanced row count exceeds limit")

	// Evaluation errors
	ErrNoScores       = errors.New("model output carries no score")
	ErrLengthMismatch = errors.New("scores and labels differ in length")
	ErrMixedScores    = errors.New("model outputs mix score sources")
	ErrNoTrainer      = errors.New("no model trainer configured")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func NewReportNotFoundError(id string) error {
	return fmt.Errorf("%w with id %s", ErrReportNotFound, id)
}

func NewLabelNotFoundError(task string) error {
	return fmt.Errorf("%w for %s classification", ErrLabelNotFound, task)
}

func NewInvalidLabelError(column string, row int, value interface{}) error {
	return fmt.Errorf("%w: column %q row %d value %v", ErrInvalidLabel, column, row, value)
}

func NewBalanceLimitError(required, limit int) error {
	return fmt.Errorf("%w: %d rows required, limit %d", ErrBalanceLimitExceeded, required, limit)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsLabelError(err error) bool {
	return errors.Is(err, ErrLabelNotFound) ||
		errors.Is(err, ErrInvalidLabel)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyOrMalformedTable) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrInvalidFraction) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrNoScores) ||
		errors.Is(err, ErrMixedScores)
}
