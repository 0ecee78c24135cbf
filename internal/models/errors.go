package models

import (
	"errors"
	"sort"
	"strings"
)

// Domain error kinds. Store and service failures wrap exactly one of these,
// so callers classify them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("authorization error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// FieldErrors is a validation failure listing the offending fields.
// It matches ErrValidation under errors.Is.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap ties a FieldErrors value to ErrValidation.
func (f FieldErrors) Unwrap() error {
	return ErrValidation
}
