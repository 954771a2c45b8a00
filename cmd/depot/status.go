// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/depot-store/depot/internal/config"
	"github.com/depot-store/depot/internal/store"
)

// MigrationStatus holds the schema state reported by the status command.
type MigrationStatus struct {
	Version uint     `json:"version"`
	Dirty   bool     `json:"dirty"`
	Current string   `json:"current,omitempty"`
	Pending []string `json:"pending,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand with all flags configured.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database schema status",
		Long:  `Show the current migration version and any pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "open migration source").Wrap(err)
	}
	defer func() { _ = migrator.Close() }()

	status, err := collectStatus(migrator)
	if err != nil {
		return err
	}

	if cfg.jsonOutput {
		out, marshalErr := json.MarshalIndent(status, "", "  ")
		if marshalErr != nil {
			return oops.With("operation", "format status").Wrap(marshalErr)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(formatStatusTable(status))
	return nil
}

func collectStatus(migrator *store.Migrator) (*MigrationStatus, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		return nil, oops.With("operation", "get migration version").Wrap(err)
	}

	status := &MigrationStatus{Version: version, Dirty: dirty}

	if version > 0 {
		name, nameErr := store.MigrationName(version)
		if nameErr == nil && name != "" {
			status.Current = name
		}
	}

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return nil, oops.With("operation", "get pending migrations").Wrap(err)
	}
	for _, v := range pending {
		name, nameErr := store.MigrationName(v)
		if nameErr != nil || name == "" {
			name = fmt.Sprintf("%d", v)
		}
		status.Pending = append(status.Pending, name)
	}

	return status, nil
}

func formatStatusTable(status *MigrationStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "VERSION\t%d\n", status.Version)
	if status.Current != "" {
		fmt.Fprintf(w, "CURRENT\t%s\n", status.Current)
	}
	fmt.Fprintf(w, "DIRTY\t%t\n", status.Dirty)
	if len(status.Pending) == 0 {
		fmt.Fprintf(w, "PENDING\tnone\n")
	} else {
		fmt.Fprintf(w, "PENDING\t%s\n", strings.Join(status.Pending, ", "))
	}

	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
