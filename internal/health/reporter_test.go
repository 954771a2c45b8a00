// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

type stubMigrations struct {
	pending []uint
	err     error
}

func (s *stubMigrations) PendingMigrations() ([]uint, error) { return s.pending, s.err }

func TestReporter_Basic(t *testing.T) {
	r := NewReporter(&stubPinger{}, &stubMigrations{})
	report := r.Basic()
	assert.Equal(t, StatusOK, report.Status)
	assert.Empty(t, report.Checks)
}

func TestReporter_Live(t *testing.T) {
	r := NewReporter(&stubPinger{err: errors.New("down")}, &stubMigrations{err: errors.New("down")})
	// Liveness must not depend on downstream state.
	report := r.Live()
	assert.Equal(t, StatusAlive, report.Status)
}

func TestReporter_Ready(t *testing.T) {
	ctx := context.Background()

	t.Run("all checks pass", func(t *testing.T) {
		r := NewReporter(&stubPinger{}, &stubMigrations{})

		report, ready := r.Ready(ctx)
		assert.True(t, ready)
		assert.Equal(t, StatusReady, report.Status)
		assert.Equal(t, StatusOK, report.Checks["database"].Status)
		assert.Equal(t, StatusOK, report.Checks["migrations"].Status)
	})

	t.Run("database unreachable", func(t *testing.T) {
		r := NewReporter(&stubPinger{err: errors.New("connection refused")}, &stubMigrations{})

		report, ready := r.Ready(ctx)
		assert.False(t, ready)
		assert.Equal(t, StatusNotReady, report.Status)
		assert.Equal(t, StatusError, report.Checks["database"].Status)
		assert.Equal(t, "connection refused", report.Checks["database"].Message)
		assert.Equal(t, StatusOK, report.Checks["migrations"].Status, "checks are independent")
	})

	t.Run("pending migrations are listed by name", func(t *testing.T) {
		r := NewReporter(&stubPinger{}, &stubMigrations{pending: []uint{2}})

		report, ready := r.Ready(ctx)
		assert.False(t, ready)
		assert.Equal(t, StatusNotReady, report.Status)
		assert.Equal(t, StatusError, report.Checks["migrations"].Status)
		assert.Equal(t, "pending migrations: 000002_create_users_and_sessions",
			report.Checks["migrations"].Message)
	})

	t.Run("unknown pending versions fall back to numbers", func(t *testing.T) {
		r := NewReporter(&stubPinger{}, &stubMigrations{pending: []uint{2, 99}})

		report, _ := r.Ready(ctx)
		assert.Equal(t, "pending migrations: 000002_create_users_and_sessions, 99",
			report.Checks["migrations"].Message)
	})

	t.Run("migration source failure", func(t *testing.T) {
		r := NewReporter(&stubPinger{}, &stubMigrations{err: errors.New("dirty database")})

		report, ready := r.Ready(ctx)
		require.False(t, ready)
		assert.Equal(t, StatusError, report.Checks["migrations"].Status)
		assert.Equal(t, "dirty database", report.Checks["migrations"].Message)
	})
}
