// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-store/depot/pkg/errutil"
)

func TestCode(t *testing.T) {
	t.Run("returns code for oops error", func(t *testing.T) {
		err := oops.Code("CATALOG_NOT_FOUND").Errorf("missing")
		assert.Equal(t, "CATALOG_NOT_FOUND", errutil.Code(err))
	})

	t.Run("returns empty for oops error without a code", func(t *testing.T) {
		err := oops.With("operation", "ping").Errorf("boom")
		assert.Empty(t, errutil.Code(err))
	})

	t.Run("returns empty for standard error", func(t *testing.T) {
		assert.Empty(t, errutil.Code(errors.New("plain")))
	})

	t.Run("returns empty for nil", func(t *testing.T) {
		assert.Empty(t, errutil.Code(nil))
	})
}

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("DB_PING_FAILED").
		With("operation", "ping").
		Errorf("connection refused")

	errutil.LogError(logger, "health probe failed", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "health probe failed", entry["msg"])
	assert.Equal(t, "DB_PING_FAILED", entry["code"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "operation failed", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "boom")
}
