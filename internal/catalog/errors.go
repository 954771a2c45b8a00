// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("not found")

// ErrTitleTaken is returned by repositories when the database unique index
// on title rejects a write. The service translates it into the same field
// error the validator would have produced.
var ErrTitleTaken = errors.New("title already taken")

// Errors collects field-level validation failures, keyed by field name.
// An empty Errors means the record is valid.
type Errors map[string][]string

// Add records a validation failure for a field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// On returns the failure messages recorded for a field.
func (e Errors) On(field string) []string {
	return e[field]
}

// Any reports whether any validation failure was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// ValidationError carries field-level validation failures across the
// service boundary. It is returned to the caller and is never fatal.
type ValidationError struct {
	Fields Errors
}

// Error renders the failures in a stable field order.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			parts = append(parts, fmt.Sprintf("%s %s", field, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
