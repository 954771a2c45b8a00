// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package errutil provides helpers for working with oops-wrapped errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the oops error code for err, or "" if err is not an oops
// error or carries no code.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	// Code() is typed any; unset codes come back nil.
	code, _ := oopsErr.Code().(string)
	return code
}

// LogError logs an error with structured context if it's an oops error.
// For oops errors, the message, code, and attached context are logged as
// separate attributes. Standard errors log the error string only.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := Code(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
