package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stockscan-backend/internal/metrics"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for ids and codes that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrProtected is returned when a delete is blocked by referencing rows.
	ErrProtected = errors.New("protected by existing references")
	// ErrBadAction is an unknown stock action.
	ErrBadAction = errors.New("bad action")

	ErrInvalidInput       = errors.New("invalid input")
	ErrNegativeStock      = errors.New("negative stock")
	ErrDuplicatePrefix    = errors.New("duplicate brand prefix")
	ErrDuplicateBrandName = errors.New("duplicate brand name")
	ErrAmbiguousBrand     = errors.New("ambiguous brand input")
	ErrDuplicateLabel     = errors.New("duplicate packaging label")
	ErrBrandMismatch      = errors.New("brand mismatch")
	ErrUnregisteredPrefix = errors.New("unregistered brand prefix")
)

// ValidationError carries field level messages for a rejected write.
// Err is one of the sentinels above so callers can use errors.Is.
type ValidationError struct {
	Err    error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	if len(parts) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Err, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError counts the rejection and wraps err with field messages.
// Request-level checks outside the catalog use it too.
func NewValidationError(err error, fields map[string]string) *ValidationError {
	metrics.ValidationFailures.WithLabelValues(reason(err)).Inc()
	return &ValidationError{Err: err, Fields: fields}
}

// invalid builds a ValidationError from field/message pairs.
func invalid(err error, fieldAndMsg ...string) *ValidationError {
	fields := make(map[string]string, len(fieldAndMsg)/2)
	for i := 0; i+1 < len(fieldAndMsg); i += 2 {
		fields[fieldAndMsg[i]] = fieldAndMsg[i+1]
	}
	return NewValidationError(err, fields)
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrNegativeStock):
		return "negative_stock"
	case errors.Is(err, ErrDuplicatePrefix):
		return "duplicate_prefix"
	case errors.Is(err, ErrDuplicateBrandName):
		return "duplicate_brand_name"
	case errors.Is(err, ErrAmbiguousBrand):
		return "ambiguous_brand"
	case errors.Is(err, ErrDuplicateLabel):
		return "duplicate_label"
	case errors.Is(err, ErrBrandMismatch):
		return "brand_mismatch"
	case errors.Is(err, ErrUnregisteredPrefix):
		return "unregistered_prefix"
	}
	return "invalid_input"
}

// notFound maps gorm's record-not-found onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
