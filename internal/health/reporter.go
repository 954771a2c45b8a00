// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package health reports service health for operational monitoring.
package health

import (
	"context"
	"strconv"
	"strings"

	"github.com/depot-store/depot/internal/store"
)

// Check statuses.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// CheckResult is the outcome of a single readiness probe.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Report is the aggregate health response.
type Report struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// DatabasePinger checks database connectivity. Satisfied by
// *pgxpool.Pool.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// MigrationSource reports schema migrations not yet applied. Satisfied
// by *store.Migrator.
type MigrationSource interface {
	PendingMigrations() ([]uint, error)
}

// Reporter runs health checks. Every check is single-shot and
// synchronous; infrastructure failures are converted into an error
// check result, never propagated.
type Reporter struct {
	db         DatabasePinger
	migrations MigrationSource
}

// NewReporter creates a Reporter over the given probes.
func NewReporter(db DatabasePinger, migrations MigrationSource) *Reporter {
	return &Reporter{db: db, migrations: migrations}
}

// Basic reports that the process is up. It checks nothing else.
func (r *Reporter) Basic() Report {
	return Report{Status: StatusOK}
}

// Live reports that the process is alive. Used for liveness probes
// that must not depend on downstream state.
func (r *Reporter) Live() Report {
	return Report{Status: StatusAlive}
}

// Ready runs the database and migration checks once and reports
// readiness. Ready means every check passed.
func (r *Reporter) Ready(ctx context.Context) (Report, bool) {
	checks := map[string]CheckResult{
		"database":   r.checkDatabase(ctx),
		"migrations": r.checkMigrations(),
	}

	ready := true
	for _, c := range checks {
		if c.Status != StatusOK {
			ready = false
			break
		}
	}

	status := StatusReady
	if !ready {
		status = StatusNotReady
	}
	return Report{Status: status, Checks: checks}, ready
}

func (r *Reporter) checkDatabase(ctx context.Context) CheckResult {
	if err := r.db.Ping(ctx); err != nil {
		return CheckResult{Status: StatusError, Message: err.Error()}
	}
	return CheckResult{Status: StatusOK}
}

func (r *Reporter) checkMigrations() CheckResult {
	pending, err := r.migrations.PendingMigrations()
	if err != nil {
		return CheckResult{Status: StatusError, Message: err.Error()}
	}
	if len(pending) > 0 {
		return CheckResult{
			Status:  StatusError,
			Message: "pending migrations: " + strings.Join(migrationNames(pending), ", "),
		}
	}
	return CheckResult{Status: StatusOK}
}

// migrationNames renders pending versions as NNNNNN_name identifiers,
// falling back to the bare version number when no migration file matches.
func migrationNames(versions []uint) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		name, err := store.MigrationName(v)
		if err != nil || name == "" {
			name = strconv.FormatUint(uint64(v), 10)
		}
		names = append(names, name)
	}
	return names
}
