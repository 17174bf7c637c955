package models

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is a validation failure scoped to a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-scoped validation failures. It implements
// error so service methods can return it directly.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the errors as a field -> message map for response bodies.
// When a field fails more than one rule the first message wins.
func (ve ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = fe.Message
		}
	}
	return fields
}

// CategoryInUseError rejects deleting or deactivating a category that still
// has assets referencing it.
type CategoryInUseError struct {
	Name  string
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q has %d associated asset(s)", e.Name, e.Count)
}

// NotFoundError reports an unknown record id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// InvalidStateError rejects a status transition to an undefined status.
type InvalidStateError struct {
	Given string
	Valid map[string]string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Given)
}

// InvalidParameterError rejects malformed operation input, such as an empty
// id list for a bulk update.
type InvalidParameterError struct {
	Detail string
}

func (e *InvalidParameterError) Error() string {
	return e.Detail
}

// ErrMissingStatus is returned by the status-transition operation when no
// target status was supplied.
var ErrMissingStatus = errors.New("missing required parameter 'status'")

// ErrDuplicate is returned by repositories when a write violates a uniqueness
// constraint (category name/code, asset serial number).
var ErrDuplicate = errors.New("duplicate value for unique field")
