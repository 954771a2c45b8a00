// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-store/depot/internal/config"
	"github.com/depot-store/depot/pkg/errutil"
)

func TestStatusCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"status"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestStatusCommand_Flags(t *testing.T) {
	cmd := NewStatusCmd()

	flag := cmd.Flags().Lookup("json")
	require.NotNil(t, flag, "status should have a --json flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestFormatStatusTable(t *testing.T) {
	tests := []struct {
		name     string
		status   *MigrationStatus
		contains []string
	}{
		{
			name: "up to date schema",
			status: &MigrationStatus{
				Version: 2,
				Dirty:   false,
				Current: "000002_create_users_and_sessions",
			},
			contains: []string{"VERSION", "2", "000002_create_users_and_sessions", "false", "PENDING", "none"},
		},
		{
			name: "pending migrations listed",
			status: &MigrationStatus{
				Version: 1,
				Pending: []string{"000002_create_users_and_sessions"},
			},
			contains: []string{"VERSION", "1", "PENDING", "000002_create_users_and_sessions"},
		},
		{
			name: "dirty schema flagged",
			status: &MigrationStatus{
				Version: 1,
				Dirty:   true,
			},
			contains: []string{"DIRTY", "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := formatStatusTable(tt.status)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
		})
	}
}
